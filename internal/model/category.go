package model

// Category is one of the fixed transaction categories.
type Category string

// Expense categories.
const (
	CategoryFood      Category = "Alimentação"
	CategoryHousing   Category = "Moradia"
	CategoryLeisure   Category = "Lazer"
	CategoryTransport Category = "Transporte"
	CategoryHealth    Category = "Saúde"
	CategoryEducation Category = "Educação"
)

// Income categories.
const (
	CategoryPrimaryJob Category = "Trabalho Principal"
	CategoryClients    Category = "Clientes"
	CategoryFreelance  Category = "Freelas"
)

// CategoryOther is the fallback when nothing else applies. It belongs to
// neither the expense nor the income set.
const CategoryOther Category = "Outros"

var expenseCategories = map[Category]bool{
	CategoryFood:      true,
	CategoryHousing:   true,
	CategoryLeisure:   true,
	CategoryTransport: true,
	CategoryHealth:    true,
	CategoryEducation: true,
}

var incomeCategories = map[Category]bool{
	CategoryPrimaryJob: true,
	CategoryClients:    true,
	CategoryFreelance:  true,
}

// IsExpenseCategory reports whether c always represents spending.
func IsExpenseCategory(c Category) bool {
	return expenseCategories[c]
}

// IsIncomeCategory reports whether c always represents earnings.
func IsIncomeCategory(c Category) bool {
	return incomeCategories[c]
}

// ExpenseCategories returns the expense categories in display order.
func ExpenseCategories() []Category {
	return []Category{
		CategoryFood,
		CategoryHousing,
		CategoryLeisure,
		CategoryTransport,
		CategoryHealth,
		CategoryEducation,
		CategoryOther,
	}
}

// IncomeCategories returns the income categories in display order.
func IncomeCategories() []Category {
	return []Category{
		CategoryPrimaryJob,
		CategoryClients,
		CategoryFreelance,
		CategoryOther,
	}
}

// InvestmentCategory classifies an investment asset.
type InvestmentCategory string

// Investment categories.
const (
	InvestmentStocks      InvestmentCategory = "Ações"
	InvestmentREIT        InvestmentCategory = "FII"
	InvestmentETF         InvestmentCategory = "ETF"
	InvestmentCrypto      InvestmentCategory = "Cripto"
	InvestmentFixedIncome InvestmentCategory = "Renda Fixa"
	InvestmentTreasury    InvestmentCategory = "Tesouro Direto"
	InvestmentCDB         InvestmentCategory = "CDB"
	InvestmentLCI         InvestmentCategory = "LCI/LCA"
	InvestmentFunds       InvestmentCategory = "Fundos"
	InvestmentOther       InvestmentCategory = "Outros"
)
