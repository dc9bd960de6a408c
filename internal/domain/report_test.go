package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedInput() ReportInput {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 2, 17, 0, 0, 0, time.Local)
	return ReportInput{
		Shift: &Shift{
			ID:         42,
			EmployeeID: 7,
			StartTime:  start,
			EndTime:    &end,
			TotalHours: 8.0,
		},
		Employee: &Employee{ID: 7, Name: "Ana García"},
		Checklist: []ChecklistItem{
			{Task: MaintenanceTask{ID: 1, Description: "Limpiar peceras"}, Done: true},
			{Task: MaintenanceTask{ID: 2, Description: "Revisar heladera"}, Done: false},
		},
		Cash: &CashRegister{
			Date:              "2026-03-02T00:00:00",
			InitialBalance:    500,
			CashSales:         12000,
			Expenses:          1500,
			BalanceDifference: -200,
			TotalWithdrawals:  8000,
		},
		TotalSales: 12000,
		Now:        time.Date(2026, 3, 2, 17, 5, 0, 0, time.Local),
	}
}

func TestComposeReport_SplitsCompletedAndIncompleteTasks(t *testing.T) {
	text := ComposeReport(fixedInput())

	require.Contains(t, text, "✅ Realizado:")
	require.Contains(t, text, "❌ No Realizado:")

	doneSection := text[strings.Index(text, "✅ Realizado:"):strings.Index(text, "❌ No Realizado:")]
	pendingSection := text[strings.Index(text, "❌ No Realizado:"):]

	assert.Equal(t, 1, strings.Count(doneSection, "- "), "exactly one completed task")
	assert.Contains(t, doneSection, "Limpiar peceras")
	assert.Equal(t, 1, strings.Count(pendingSection, "- "), "exactly one incomplete task")
	assert.Contains(t, pendingSection, "Revisar heladera")
}

func TestComposeReport_IncludesCashFigures(t *testing.T) {
	text := ComposeReport(fixedInput())

	assert.Contains(t, text, "500", "initial balance appears in the text")
	assert.Contains(t, text, "Inicial: $500")
	assert.Contains(t, text, "Ventas Efec.: $12.000")
	assert.Contains(t, text, "Diferencia: $-200 🔴")
}

func TestComposeReport_Deterministic(t *testing.T) {
	in := fixedInput()
	assert.Equal(t, ComposeReport(in), ComposeReport(in))
}

func TestComposeReport_SectionOrdering(t *testing.T) {
	text := ComposeReport(fixedInput())

	order := []string{
		"*REPORTE DE CIERRE DE TURNO*",
		"*Operador:*",
		"*RESUMEN OPERATIVO*",
		"*DETALLE DE CAJA*",
		"*MANTENIMIENTO*",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(text, marker)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", marker)
		assert.Greater(t, idx, last, "section %q out of order", marker)
		last = idx
	}
}

func TestComposeReport_OmitsCashSectionWithoutSnapshot(t *testing.T) {
	in := fixedInput()
	in.Cash = nil
	text := ComposeReport(in)

	assert.NotContains(t, text, "DETALLE DE CAJA")
	assert.Contains(t, text, "RESUMEN OPERATIVO")
}

func TestComposeReport_DurationAndTimeRange(t *testing.T) {
	text := ComposeReport(fixedInput())

	assert.Contains(t, text, "Duración: 8.00 hs")
	assert.Contains(t, text, "09:00 - 17:00")
}

func TestComposeReport_EmptyFreeTextDefaults(t *testing.T) {
	text := ComposeReport(fixedInput())

	assert.Contains(t, text, "Stock: Sin novedades")
	assert.Contains(t, text, "Quejas: Ninguna")
	assert.Contains(t, text, "Rebotes: Ninguno")
	assert.NotContains(t, text, "NOTAS GENERALES")
}

func TestComposeReport_NoCompletedTasksWarning(t *testing.T) {
	in := fixedInput()
	in.Checklist[0].Done = false
	text := ComposeReport(in)

	assert.Contains(t, text, "No se registraron tareas completadas")
	assert.NotContains(t, text, "✅ Realizado:")
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0"},
		{500, "500"},
		{1234, "1.234"},
		{1234567, "1.234.567"},
		{1234.5, "1.234,5"},
		{1234.56, "1.234,56"},
		{-200, "-200"},
		{-1234.5, "-1.234,5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.value), "value %v", tt.value)
	}
}

func TestSpanishDate(t *testing.T) {
	d := time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local) // a Monday
	assert.Equal(t, "Lunes, 2 de marzo de 2026", SpanishDate(d))
}

func TestMaintenanceTaskAppliesTo(t *testing.T) {
	assert.True(t, MaintenanceTask{Branch: ""}.AppliesTo("Centro"))
	assert.True(t, MaintenanceTask{Branch: "Ambas"}.AppliesTo("Centro"))
	assert.True(t, MaintenanceTask{Branch: "Centro"}.AppliesTo("Centro"))
	assert.False(t, MaintenanceTask{Branch: "Norte"}.AppliesTo("Centro"))
}

func TestCashRegisterIsForDate(t *testing.T) {
	entry := CashRegister{Date: "2026-03-02T10:30:00"}
	assert.True(t, entry.IsForDate(time.Date(2026, 3, 2, 23, 0, 0, 0, time.Local)))
	assert.False(t, entry.IsForDate(time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)))
}

func TestBuildDailyReport(t *testing.T) {
	in := fixedInput()
	in.Complaints = "1 reclamo"
	report := in.BuildDailyReport()

	assert.True(t, report.MaintenanceTasksCompleted, "one task checked")
	assert.Equal(t, 12000.0, report.TotalSales)
	assert.Equal(t, "1 reclamo", report.Complaints)
	assert.Equal(t, ComposeReport(in), report.ShiftData)

	in.Checklist[0].Done = false
	assert.False(t, in.BuildDailyReport().MaintenanceTasksCompleted)
}
