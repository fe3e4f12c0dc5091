package classification

import "github.com/fincompar/fincompar/internal/model"

// DefaultRules returns the built-in classification rules in evaluation
// order. Order matters: a description can match more than one rule (a
// grocery delivery containing "pagamento" must land in Alimentação, not in
// the generic income rule), so the expense rules run before the income one.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: model.CategoryFood,
			Pattern:  `ifood|uber\s?eats|rappi|restaur|lanche|pizza|burger|mcdonald|subway|padaria|mercado|supermercado|hortifruti|açougue|carrefour|pão\s?de\s?açúcar|extra|assaí`,
		},
		{
			Category: model.CategoryTransport,
			Pattern:  `uber|99|lyft|cabify|combustível|gasolina|estaciona|pedágio|metrô|ônibus|bilhete\s?único|sem\s?parar`,
		},
		{
			Category: model.CategoryHousing,
			Pattern:  `aluguel|condomínio|iptu|luz|energia|água|gás|internet|telefone|celular|vivo|claro|tim|oi\s`,
		},
		{
			Category: model.CategoryHealth,
			Pattern:  `farmácia|drogaria|hospital|clínica|médic|consulta|exame|unimed|amil|sulamerica|hapvida|plano\s?de\s?saúde`,
		},
		{
			Category: model.CategoryEducation,
			Pattern:  `escola|faculdade|universidade|curso|udemy|alura|livro|livraria|mensalidade`,
		},
		{
			Category: model.CategoryLeisure,
			Pattern:  `netflix|spotify|disney|hbo|prime\s?video|cinema|show|ingresso|viagem|hotel|airbnb|booking|game|steam|playstation|xbox|nintendo`,
		},
		{
			Category: model.CategoryPrimaryJob,
			Pattern:  `salário|salary|pagamento|pix\s?recebido|transferência\s?recebida|depósito`,
		},
	}
}
