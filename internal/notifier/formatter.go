package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/relaxationvid13/signal-bot/internal/model"
	"github.com/relaxationvid13/signal-bot/internal/report"
)

// NoSignalsMessage is sent when a scan finds nothing new to report.
const NoSignalsMessage = "ℹ️ Подходящих матчей не найдено."

// FormatSignal renders one qualifying fixture as a chat message.
func FormatSignal(title string, sig model.Signal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🟢 <b>%s</b>\n", title))
	if sig.League != "" {
		b.WriteString(fmt.Sprintf("🏆 %s\n", sig.League))
	}
	b.WriteString(fmt.Sprintf("%s — %s\n", sig.Home, sig.Away))
	if sig.Favorite != "" {
		b.WriteString(fmt.Sprintf("💹 Фаворит: <b>%s</b> (кэф ~ %.2f)\n", sig.Favorite, sig.Price))
	}
	if sig.Commentary != "" {
		b.WriteString(fmt.Sprintf("📊 %s\n", sig.Commentary))
	}
	market := marketLabel(sig.Market)
	if sig.Favorite == "" && sig.Price > 0 {
		market = fmt.Sprintf("%s (кэф ~ %.2f)", market, sig.Price)
	}
	b.WriteString(fmt.Sprintf("🎯 Рынок: %s\n", market))
	b.WriteString("──────────────")
	return b.String()
}

// FormatDailyReport renders the day's tally with one line per signal.
func FormatDailyReport(day string, signals []model.Signal, rep report.Report) string {
	var b strings.Builder
	b.WriteString("📊 <b>Отчёт за день</b>\n")
	b.WriteString(fmt.Sprintf("Дата: %s\n", day))
	b.WriteString(fmt.Sprintf("Сигналов: <b>%d</b>\n", rep.Total))
	if rep.Total == 0 {
		return b.String()
	}
	b.WriteString("\n")
	for _, sig := range signals {
		b.WriteString(fmt.Sprintf("%s %s — %s · %s", outcomeEmoji(sig.Outcome), sig.Home, sig.Away, marketLabel(sig.Market)))
		if sig.FinalScore != "" {
			b.WriteString(" · " + sig.FinalScore)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formatTally(rep))
	return b.String()
}

// FormatWeeklyReport renders the rolling seven-day summary.
func FormatWeeklyReport(from, to string, rep report.Report) string {
	return formatPeriodReport("🗓 <b>Недельная сводка</b>", from, to, rep)
}

// FormatMonthlyReport renders the month-to-date summary.
func FormatMonthlyReport(from, to string, rep report.Report) string {
	return formatPeriodReport("📅 <b>Месячная сводка</b>", from, to, rep)
}

func formatPeriodReport(header, from, to string, rep report.Report) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(fmt.Sprintf("Период: %s — %s\n", from, to))
	b.WriteString(fmt.Sprintf("Сигналов: <b>%d</b>\n", rep.Total))
	if rep.Total == 0 {
		return b.String()
	}
	b.WriteString(formatTally(rep))
	return b.String()
}

// FormatMarkers lists each task's last-completed period key in the given
// order.
func FormatMarkers(order []string, markers map[string]string) string {
	var b strings.Builder
	b.WriteString("🧭 <b>Маркеры задач</b>\n")
	for _, task := range order {
		key := markers[task]
		if key == "" {
			key = "—"
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", task, key))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTally(rep report.Report) string {
	parts := []string{
		fmt.Sprintf("✅ %d", rep.Wins),
		fmt.Sprintf("❌ %d", rep.Losses),
	}
	if rep.Pushes > 0 {
		parts = append(parts, fmt.Sprintf("➖ %d", rep.Pushes))
	}
	if rep.Voids > 0 {
		parts = append(parts, fmt.Sprintf("🚫 %d", rep.Voids))
	}
	if rep.Pending > 0 {
		parts = append(parts, fmt.Sprintf("⏳ %d", rep.Pending))
	}
	var b strings.Builder
	b.WriteString(strings.Join(parts, "  ") + "\n")
	b.WriteString(fmt.Sprintf("💰 Прибыль: %s ед.", signedUnits(rep.Profit)))
	if rate, ok := rep.PassRate(); ok {
		b.WriteString(fmt.Sprintf(" | Проходимость: %.1f%%", rate))
	}
	return b.String()
}

func signedUnits(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

func outcomeEmoji(o model.Outcome) string {
	switch o {
	case model.OutcomeWin:
		return "✅"
	case model.OutcomeLoss:
		return "❌"
	case model.OutcomePush:
		return "➖"
	case model.OutcomeVoid:
		return "🚫"
	default:
		return "⏳"
	}
}

func marketLabel(m model.Market) string {
	side := "ТБ"
	if m.Side == model.Under {
		side = "ТМ"
	}
	label := fmt.Sprintf("%s %.1f", side, m.Line)
	if m.Scope == model.FirstHalf {
		label += " (1-й тайм)"
	}
	return label
}
