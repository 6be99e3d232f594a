package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Thidomsilva/cryptoup/simulate"
)

// formatResults renders the simulation rows as a Markdown message.
// Failed quotes render as a per-exchange failure block, never as a
// generic error, so partial data stays visible
func formatResults(
	results []simulate.Result,
	amount float64,
	resalePrice float64,
	botUsername string,
) string {
	if len(results) == 0 {
		return "Não foi possível obter os resultados da simulação. Tente novamente mais tarde."
	}

	best := simulate.Best(results)

	var b strings.Builder

	fmt.Fprintf(&b, "*Simulação de Arbitragem para %s*\n", formatBRL(amount))
	fmt.Fprintf(&b, "_Preço de venda Picnic: %s_\n\n", formatBRL(resalePrice))

	for i, result := range results {
		if result.BuyPrice == nil {
			fmt.Fprintf(&b, "*%s*\n", result.ExchangeName)
			b.WriteString("  - 🟥 *Cotação indisponível*\n\n")

			continue
		}

		marker := ""
		if i == best {
			marker = " ⭐️ *Melhor Opção*"
		}

		profitIcon := "🔴"
		if *result.Profit > 0 {
			profitIcon = "🟢"
		}

		fmt.Fprintf(&b, "*%s*%s\n", result.ExchangeName, marker)
		fmt.Fprintf(&b, "  - Compra USDT por: %s\n", formatBRL(*result.BuyPrice))
		fmt.Fprintf(&b, "  - USDT Recebido: %.4f\n", *result.USDTAfterFee)
		fmt.Fprintf(
			&b,
			"  - Lucro/Prejuízo: %s *%s* (%.2f%%)\n\n",
			profitIcon,
			formatBRL(*result.Profit),
			*result.ProfitPercentage,
		)
	}

	if botUsername == "" {
		botUsername = "braitsure_bot"
	}

	fmt.Fprintf(&b, "_Análise feita por @%s_", botUsername)

	return b.String()
}

// formatBRL renders a value in the Brazilian currency format:
// thousands separated by dots, comma decimals: "R$ 5.000,25"
func formatBRL(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	fixed := strconv.FormatFloat(v, 'f', 2, 64)

	parts := strings.SplitN(fixed, ".", 2)
	whole, decimals := parts[0], parts[1]

	var b strings.Builder

	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}

		b.WriteRune(digit)
	}

	return fmt.Sprintf("%sR$ %s,%s", sign, b.String(), decimals)
}
