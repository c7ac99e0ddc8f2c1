// Package recorder submits sentences from web pages to the content API. A
// selection records its first sentence; a page scan records one sentence
// picked at random near the top of the page.
package recorder

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"speshway-platform/internal/logger"
)

type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

type PageSource interface {
	PageText(ctx context.Context, pageURL string) (string, error)
}

// Recorder runs triggers in the background. Failures are logged and never
// reported back to the trigger.
type Recorder struct {
	api   Submitter
	pages PageSource
	log   *slog.Logger
	now   func() time.Time
	intn  func(int) int
	wg    sync.WaitGroup
}

func New(api Submitter, pages PageSource) *Recorder {
	return &Recorder{
		api:   api,
		pages: pages,
		log:   logger.With("component", "recorder"),
		now:   time.Now,
		intn:  rand.IntN,
	}
}

// RecordSelection submits the first sentence of selected text on pageURL.
func (r *Recorder) RecordSelection(ctx context.Context, pageURL, selection string) {
	r.goSafe(func() {
		sentence, ok := FirstSentence(selection)
		if !ok {
			r.log.Debug("Selection has no sentence", "url", pageURL)
			return
		}
		r.submit(ctx, pageURL, sentence, "selection")
	})
}

// ScanPage loads pageURL and submits one of its first sentences.
func (r *Recorder) ScanPage(ctx context.Context, pageURL string) {
	r.goSafe(func() {
		text, err := r.pages.PageText(ctx, pageURL)
		if err != nil {
			r.log.Warn("Failed to load page", "url", pageURL, "error", err)
			return
		}
		sentence, ok := PickForScan(ExtractSentences(text), r.intn)
		if !ok {
			r.log.Debug("Page has no sentence", "url", pageURL)
			return
		}
		r.submit(ctx, pageURL, sentence, "scan")
	})
}

// RecordSelections records each selection received on selections until the
// channel is closed or ctx is done.
func (r *Recorder) RecordSelections(ctx context.Context, pageURL string, selections <-chan string) {
	r.goSafe(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case text, ok := <-selections:
				if !ok {
					return
				}
				r.RecordSelection(ctx, pageURL, text)
			}
		}
	})
}

// Visit handles one page view: the page is scanned once while selections on
// it keep being recorded. Both triggers run independently.
func (r *Recorder) Visit(ctx context.Context, pageURL string, selections <-chan string) {
	r.ScanPage(ctx, pageURL)
	r.RecordSelections(ctx, pageURL, selections)
}

// Wait blocks until every started trigger has finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) submit(ctx context.Context, pageURL, sentence, trigger string) {
	err := r.api.Submit(ctx, Submission{Text: sentence, URL: pageURL, Timestamp: r.now().UTC()})
	if err != nil {
		r.log.Error("Failed to record sentence", "url", pageURL, "trigger", trigger, "error", err)
		return
	}
	r.log.Info("Recorded sentence", "url", pageURL, "trigger", trigger, "length", len(sentence))
}

func (r *Recorder) goSafe(fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.log.Error("Recorder trigger panicked", "panic", p)
			}
		}()
		fn()
	}()
}
