package cli

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/dshills/m2docs/internal/extractor"
)

// progressReporter shows a file progress bar on stderr
type progressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
	start time.Time
}

func newProgressReporter(quiet bool) *progressReporter {
	return &progressReporter{quiet: quiet, start: time.Now()}
}

// OnFilesRead starts the bar once the corpus size is known
func (p *progressReporter) OnFilesRead(n int) {
	if p.quiet {
		return
	}
	log.Printf("Extracting %d files", n)
	p.bar = progressbar.NewOptions(n,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

// OnFileDone advances the bar; called from worker goroutines
func (p *progressReporter) OnFileDone(string) {
	if p.quiet || p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// OnComplete prints the run summary
func (p *progressReporter) OnComplete(result *extractor.CorpusResult, docsPath, chunksPath string) {
	if p.quiet {
		return
	}
	if p.bar != nil {
		_ = p.bar.Finish()
	}

	stats := result.Stats
	log.Printf("Extracted %d entries and %d chunks from %d files in %v",
		stats.EntriesExtracted, stats.ChunksCreated, stats.FilesProcessed, time.Since(p.start).Round(time.Millisecond))
	if stats.CacheHits > 0 {
		log.Printf("Cache hits: %d", stats.CacheHits)
	}
	if stats.Warnings > 0 {
		log.Printf("Warnings: %d entries without headline or description", stats.Warnings)
	}
	if stats.ParseErrors > 0 {
		log.Printf("Parse errors: %d", stats.ParseErrors)
	}
	if len(result.ReadWarnings) > 0 {
		log.Printf("Unreadable files: %d", len(result.ReadWarnings))
	}
	if docsPath != "" && docsPath != extractor.Stdout {
		log.Printf("Records: %s", docsPath)
	}
	if chunksPath != "" && chunksPath != extractor.Stdout {
		log.Printf("Chunks: %s", chunksPath)
	}
	if result.RunID != "" {
		log.Printf("Run: %s", result.RunID)
	}
}
