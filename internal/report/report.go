// Package report renders channel reports to the console and to the
// snapshot log file.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/yt-insights/ytstats/internal/models"
)

var dim = color.New(color.FgHiBlack)

// Reporter writes human-readable reports.
type Reporter struct {
	out io.Writer
}

// New returns a Reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Stats prints the aggregate channel counts followed by a blank line.
func (r *Reporter) Stats(stats *models.ChannelStats) {
	fmt.Fprintf(r.out, "View count: %s\n", stats.ViewCount)
	fmt.Fprintf(r.out, "Subscriber count: %s\n", stats.SubscriberCount)
	fmt.Fprintf(r.out, "Video count: %s\n\n", stats.VideoCount)
}

// Selection prints both selected videos; debug adds their raw IDs.
func (r *Reporter) Selection(sel *models.Selection, debug bool) error {
	if err := r.video("Most Viewed Video", sel.MostViewed, debug); err != nil {
		return err
	}
	return r.video("Latest Video", sel.Latest, debug)
}

func (r *Reporter) video(label string, v models.VideoRecord, debug bool) error {
	published, err := v.PublishedTime()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s: %s, (Published: %s, Views: %d)\n", label, v.Title, published, v.ViewCount)
	if debug {
		dim.Fprintf(r.out, "%s %s\n", label+" ID: ", v.ID)
	}
	return nil
}

// FormatLogEntry builds the block prepended to the log file. A nil selection
// leaves out the video lines.
func FormatLogEntry(at time.Time, stats *models.ChannelStats, sel *models.Selection) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s]\n", at.Format(models.DisplayTimeLayout))
	fmt.Fprintf(&b, "View count: %s\n", stats.ViewCount)
	fmt.Fprintf(&b, "Subscriber count: %s\n", stats.SubscriberCount)
	fmt.Fprintf(&b, "Video count: %s\n", stats.VideoCount)

	if sel != nil {
		published, err := sel.Latest.PublishedTime()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " Most Viewed Video: %s (%d views)\n", sel.MostViewed.Title, sel.MostViewed.ViewCount)
		fmt.Fprintf(&b, " Lastest Video: %s (published: %s)\n", sel.Latest.Title, published)
	}
	b.WriteString("\n")
	return b.String(), nil
}

// PrependToFile rewrites path with entry followed by its previous content.
// The file must already exist. The rewrite is not atomic.
func PrependToFile(path, entry string) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, entry); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	if _, err := f.Write(existing); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return f.Close()
}
