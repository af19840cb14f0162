package finance

import "time"

// Summary is the rolling monthly view shown on the financial page.
// Balance figures are scoped to the current calendar month; the paid and
// pending totals intentionally cover the whole revenue history.
type Summary struct {
	SaldoAtual    float64 `json:"saldo_atual"`
	ReceitasMes   float64 `json:"receitas_mes"`
	DespesasMes   float64 `json:"despesas_mes"`
	CustosMes     float64 `json:"custos_mes"`
	LucroLiquido  float64 `json:"lucro_liquido"`
	TotalPago     float64 `json:"total_pago"`
	TotalPendente float64 `json:"total_pendente"`
	MargemMedia   float64 `json:"margem_media"`
}

// ComputeSummary folds the full transaction history into a Summary.
// Recomputed from scratch on every call; fine at single-shop volume.
func ComputeSummary(txs []Transaction, now time.Time) Summary {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var s Summary
	for _, t := range txs {
		inMonth := !t.CreatedAt.Before(startOfMonth)

		if t.Type == TypeReceita {
			if inMonth {
				s.ReceitasMes += t.Amount
				s.CustosMes += t.CostAmount
				s.LucroLiquido += t.ProfitAmount
			}
			switch t.Status {
			case StatusPago:
				s.TotalPago += t.Amount
			case StatusPendente:
				s.TotalPendente += t.Amount
			}
		} else if t.Type == TypeDespesa && inMonth {
			s.DespesasMes += t.Amount
		}
	}

	s.SaldoAtual = s.ReceitasMes - s.DespesasMes
	if s.ReceitasMes > 0 {
		s.MargemMedia = s.LucroLiquido / s.ReceitasMes * 100
	}
	return s
}

// MonthPoint is one bucket of the month-by-month chart series.
type MonthPoint struct {
	Month    string  `json:"month"`
	Receitas float64 `json:"receitas"`
	Despesas float64 `json:"despesas"`
	Lucro    float64 `json:"lucro"`
}

// MonthlySeries buckets transactions into the trailing n calendar months,
// oldest first, keyed by YYYY-MM.
func MonthlySeries(txs []Transaction, now time.Time, months int) []MonthPoint {
	if months <= 0 {
		return nil
	}

	series := make([]MonthPoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, i-months+1, 0)
		key := m.Format("2006-01")
		series[i] = MonthPoint{Month: key}
		index[key] = i
	}

	for _, t := range txs {
		i, ok := index[t.CreatedAt.Format("2006-01")]
		if !ok {
			continue
		}
		switch t.Type {
		case TypeReceita:
			series[i].Receitas += t.Amount
			series[i].Lucro += t.ProfitAmount
		case TypeDespesa:
			series[i].Despesas += t.Amount
		}
	}

	return series
}
