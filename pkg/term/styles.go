package term

import "charm.land/lipgloss/v2"

var (
	barStyle     = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("252"))
	fpsStyle     = barStyle.Foreground(lipgloss.Color("10"))
	titleStyle   = barStyle.Foreground(lipgloss.Color("15")).Bold(true)
	polyStyle    = barStyle.Foreground(lipgloss.Color("14")).Bold(true)
	hintStyle    = barStyle.Foreground(lipgloss.Color("11")).Faint(true)
	lightStyle   = barStyle.Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("52")).Foreground(lipgloss.Color("15")).Bold(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Width(16)
	meterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	panelHelp    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	checkOn      = "[✓]"
	checkOff     = "[ ]"
	meterFilled  = "█"
	meterEmpty   = "░"
	meterWidth   = 10
	lightHintMsg = " ◉ LIGHT MODE - move mouse to aim, click to set, esc to cancel "
)
