package composer

// badgeStyle is a (background, foreground) color pair for a rendered badge.
type badgeStyle struct {
	background string
	foreground string
}

var (
	redBadge    = badgeStyle{"#dc3545", "#ffffff"}
	yellowBadge = badgeStyle{"#ffc107", "#212529"}
	greenBadge  = badgeStyle{"#28a745", "#ffffff"}
)

// changeTypeStyles maps manual-mapping change-type tags to badge colors.
// Unknown tags fall back to the INFO pair.
var changeTypeStyles = map[string]badgeStyle{
	"BREAKING":  redBadge,
	"REMOVED":   redBadge,
	"RENAMED":   yellowBadge,
	"MOVED":     yellowBadge,
	"MERGED":    yellowBadge,
	"STRUCTURE": yellowBadge,
	"NEW":       greenBadge,
	"INFO":      yellowBadge,
}
