package theme

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"xsearch/internal/xclient"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	artStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("36"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			MarginLeft(3)
)

// Banner returns the startup banner.
func Banner() string {
	art := artStyle.Render("  ▄▀▄▀▄  ▐ hashtag search for X ▌  ▄▀▄▀▄")
	return titleStyle.Render("XSEARCH") + "\n" + art + "\n"
}

// PrintBanner writes the banner to w.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, Banner())
}

// Plan renders the pre-run summary shown in debug mode, one "key: value" per line.
func Plan(pairs [][2]string) string {
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(keyStyle.Render(p[0]+":") + " " + p[1] + "\n")
	}
	return b.String()
}

// Success is the line printed after a file was written.
func Success(n int, path string) string {
	return successStyle.Render(fmt.Sprintf("Saved %d posts to %s", n, path))
}

// Guidance lists likely reasons for an empty result, the most likely first given
// the error that ended the run (nil when the search simply matched nothing).
func Guidance(err error) []string {
	rate := "Rate limit exceeded (wait ~15 minutes)"
	quota := "Monthly quota exhausted (check X Developer Portal)"
	none := "No recent posts match your query"
	lang := "Try removing --lang filter or using --debug for details"

	switch {
	case xclient.IsQuotaExhausted(err):
		return []string{quota, rate, none, lang}
	case xclient.IsRateLimited(err):
		return []string{rate, quota, none, lang}
	case xclient.KindOf(err) == xclient.KindRejectedQuery:
		return []string{"The API rejected the query (check hashtags and the date range)", none, lang}
	case xclient.KindOf(err) == xclient.KindConfiguration:
		return []string{"The bearer token was refused (check credentials and access level)", quota}
	case err != nil:
		return []string{"The API could not be reached (" + err.Error() + ")", rate, none, lang}
	default:
		return []string{none, lang, rate, quota}
	}
}

// NoResults renders the zero-result guidance block.
func NoResults(err error) string {
	var b strings.Builder
	b.WriteString(warnStyle.Render("No posts found. Possible reasons:"))
	b.WriteString("\n")
	for _, g := range Guidance(err) {
		b.WriteString(hintStyle.Render("• "+g) + "\n")
	}
	return b.String()
}
