package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MaintenanceTask is one checklist item from the maintenance module.
// Branch is empty or "Ambas" for tasks that apply to every branch.
type MaintenanceTask struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Frequency   string `json:"frequency,omitempty"`
	Branch      string `json:"branch,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// AppliesTo reports whether the task belongs on the checklist of the
// given branch.
func (t MaintenanceTask) AppliesTo(branch string) bool {
	if t.Branch == "" || t.Branch == "Ambas" {
		return true
	}
	return t.Branch == branch
}

// ChecklistItem pairs a maintenance task with its done state for the
// shift being closed.
type ChecklistItem struct {
	Task MaintenanceTask
	Done bool
}

// CashRegister is the day's register snapshot. Date keeps the API's
// ISO form so entries can be matched by date prefix.
type CashRegister struct {
	ID                int     `json:"id"`
	Date              string  `json:"date"`
	InitialBalance    float64 `json:"initialBalance"`
	CashSales         float64 `json:"cashSales"`
	Expenses          float64 `json:"expenses"`
	BalanceDifference float64 `json:"balanceDifference"`
	TotalWithdrawals  float64 `json:"totalWithdrawals"`
}

// IsForDate reports whether the entry belongs to the given day.
func (c CashRegister) IsForDate(day time.Time) bool {
	return strings.HasPrefix(c.Date, day.Format("2006-01-02"))
}

// DailyReport is the write-once record persisted when a shift is
// closed. ShiftData holds the full formatted report text.
type DailyReport struct {
	ShiftData                 string  `json:"shiftData"`
	MaintenanceTasksCompleted bool    `json:"maintenanceTasksCompleted"`
	TotalSales                float64 `json:"totalSales"`
	Complaints                string  `json:"complaints"`
	Bounces                   string  `json:"bounces"`
	StockCheck                string  `json:"stockCheck"`
}

// ReportInput is everything the composer needs. Pure data, no I/O.
type ReportInput struct {
	Shift            *Shift
	Employee         *Employee
	Checklist        []ChecklistItem
	Cash             *CashRegister
	TotalSales       float64
	Complaints       string
	Bounces          string
	StockCheck       string
	MaintenanceNotes string
	GeneralNotes     string
	Now              time.Time
}

// AnyTaskDone reports whether at least one checklist item is checked.
func (in ReportInput) AnyTaskDone() bool {
	for _, item := range in.Checklist {
		if item.Done {
			return true
		}
	}
	return false
}

// BuildDailyReport assembles the persisted record from the composed
// text and the structured fields.
func (in ReportInput) BuildDailyReport() DailyReport {
	return DailyReport{
		ShiftData:                 ComposeReport(in),
		MaintenanceTasksCompleted: in.AnyTaskDone(),
		TotalSales:                in.TotalSales,
		Complaints:                in.Complaints,
		Bounces:                   in.Bounces,
		StockCheck:                in.StockCheck,
	}
}

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// SpanishDate renders "Lunes, 2 de enero de 2026" (weekday
// capitalized, es-AR long form).
func SpanishDate(t time.Time) string {
	s := fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1], t.Year())
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

// FormatMoney renders an amount the es-AR way: thousands separated by
// periods, comma decimals, decimals omitted for whole amounts.
func FormatMoney(v float64) string {
	neg := v < 0
	v = math.Abs(v)
	rounded := math.Round(v*100) / 100
	intPart := int64(rounded)
	frac := int64(math.Round((rounded - float64(intPart)) * 100))

	digits := fmt.Sprintf("%d", intPart)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	out := b.String()
	if frac != 0 {
		if frac%10 == 0 {
			out += fmt.Sprintf(",%d", frac/10)
		} else {
			out += fmt.Sprintf(",%02d", frac)
		}
	}
	if neg {
		out = "-" + out
	}
	return out
}

func balanceIcon(v float64) string {
	if v >= 0 {
		return "🟢"
	}
	return "🔴"
}

// ComposeReport assembles the end-of-shift report text. Sections
// appear in fixed order: header/date, operator and time range,
// operational summary, cash detail (only when a register snapshot
// exists), maintenance checklist split done/not-done, notes. The text
// is human-facing (copied to the clipboard / messaging), so the
// ordering and the done/not-done split are the behavioral contract,
// not individual bytes.
func ComposeReport(in ReportInput) string {
	var b strings.Builder

	b.WriteString("*REPORTE DE CIERRE DE TURNO*\n")
	fmt.Fprintf(&b, "📅 *%s*\n\n", SpanishDate(in.Now))

	fmt.Fprintf(&b, "👤 *Operador:* %s\n", in.Employee.Name)
	start := in.Shift.StartTime.Format("15:04")
	end := "--:--"
	if in.Shift.EndTime != nil {
		end = in.Shift.EndTime.Format("15:04")
	}
	fmt.Fprintf(&b, "⏰ *Horario:* %s - %s\n", start, end)
	fmt.Fprintf(&b, "⏱️ *Duración:* %.2f hs\n\n", in.Shift.TotalHours)

	b.WriteString("📊 *RESUMEN OPERATIVO*\n")
	fmt.Fprintf(&b, "   Ventas Totales: $%s\n", FormatMoney(in.TotalSales))
	fmt.Fprintf(&b, "   Stock: %s\n", orDefault(in.StockCheck, "Sin novedades"))
	fmt.Fprintf(&b, "   Quejas: %s\n", orDefault(in.Complaints, "Ninguna"))
	fmt.Fprintf(&b, "   Rebotes: %s\n\n", orDefault(in.Bounces, "Ninguno"))

	if in.Cash != nil {
		b.WriteString("💰 *DETALLE DE CAJA*\n")
		fmt.Fprintf(&b, "   • Inicial: $%s\n", FormatMoney(in.Cash.InitialBalance))
		fmt.Fprintf(&b, "   • Ventas Efec.: $%s\n", FormatMoney(in.Cash.CashSales))
		fmt.Fprintf(&b, "   • Gastos: $%s\n", FormatMoney(in.Cash.Expenses))
		b.WriteString("   ---------------------------\n")
		fmt.Fprintf(&b, "   • Diferencia: $%s %s\n", FormatMoney(in.Cash.BalanceDifference), balanceIcon(in.Cash.BalanceDifference))
		fmt.Fprintf(&b, "   • Total Retirado: $%s\n\n", FormatMoney(in.Cash.TotalWithdrawals))
	}

	b.WriteString("🛠️ *MANTENIMIENTO*\n")
	var done, pending []MaintenanceTask
	for _, item := range in.Checklist {
		if item.Done {
			done = append(done, item.Task)
		} else {
			pending = append(pending, item.Task)
		}
	}
	if len(done) > 0 {
		b.WriteString("   ✅ Realizado:\n")
		for _, t := range done {
			fmt.Fprintf(&b, "      - %s\n", t.Description)
		}
	} else {
		b.WriteString("   ⚠️ No se registraron tareas completadas.\n")
	}
	if len(pending) > 0 {
		b.WriteString("   ❌ No Realizado:\n")
		for _, t := range pending {
			fmt.Fprintf(&b, "      - %s\n", t.Description)
		}
	}
	if strings.TrimSpace(in.MaintenanceNotes) != "" {
		fmt.Fprintf(&b, "   📝 Notas Mant.: %s\n", in.MaintenanceNotes)
	}
	b.WriteString("\n")

	if strings.TrimSpace(in.GeneralNotes) != "" {
		fmt.Fprintf(&b, "📌 *NOTAS GENERALES*\n%s\n", in.GeneralNotes)
	}

	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
