package pages

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/page"
)

// AutoPlayInterval is the delay between two carousel slides.
const AutoPlayInterval = 5 * time.Second

// Accueil runs the home page carousel and the category shortcuts.
type Accueil struct {
	env    *page.Env
	doc    *dom.Document
	logger *log.Logger

	// Interval overrides AutoPlayInterval when set before Init.
	Interval time.Duration

	mu      sync.Mutex
	current int
	slides  []*dom.Element
	dots    []*dom.Element

	reset  chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAccueil is the factory of the home page module.
func NewAccueil(env *page.Env) (page.Module, error) {
	return &Accueil{
		env:      env,
		doc:      env.Window.Document,
		logger:   env.Log("accueil"),
		Interval: AutoPlayInterval,
	}, nil
}

func (p *Accueil) Init(ctx context.Context) error {
	p.initCarousel(ctx)
	p.initFilterButtons()
	return nil
}

// Unmount stops the autoplay goroutine and waits for it.
func (p *Accueil) Unmount(ctx context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Current returns the index of the visible slide.
func (p *Accueil) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Accueil) initCarousel(ctx context.Context) {
	slides := p.doc.QuerySelectorAll(".carousel-slide")
	if len(slides) == 0 {
		return
	}
	p.mu.Lock()
	p.slides = slides
	p.dots = p.doc.QuerySelectorAll(".carousel-dot")
	p.mu.Unlock()

	if prev := p.doc.GetElementByID("prevSlide"); prev != nil {
		prev.AddEventListener("click", func(*dom.Event) {
			p.step(-1)
			p.resetAutoPlay()
		})
	}
	if next := p.doc.GetElementByID("nextSlide"); next != nil {
		next.AddEventListener("click", func(*dom.Event) {
			p.step(1)
			p.resetAutoPlay()
		})
	}
	for i, dot := range p.dots {
		i := i
		dot.AddEventListener("click", func(*dom.Event) {
			p.show(i)
			p.resetAutoPlay()
		})
	}

	p.startAutoPlay(ctx)
}

func (p *Accueil) step(delta int) {
	p.mu.Lock()
	i := p.current + delta
	p.mu.Unlock()
	p.show(i)
}

// show makes slide i visible, wrapping around both ends.
func (p *Accueil) show(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.slides)
	if n == 0 {
		return
	}
	switch {
	case i >= n:
		i = 0
	case i < 0:
		i = n - 1
	}
	p.current = i

	for j, s := range p.slides {
		if j == i {
			s.AddClass("active")
		} else {
			s.RemoveClass("active")
		}
	}
	for j, d := range p.dots {
		if j == i {
			d.AddClass("active")
		} else {
			d.RemoveClass("active")
		}
	}
}

func (p *Accueil) startAutoPlay(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	reset := make(chan struct{}, 1)

	p.mu.Lock()
	p.cancel, p.done, p.reset = cancel, done, reset
	interval := p.Interval
	p.mu.Unlock()
	if interval <= 0 {
		interval = AutoPlayInterval
	}

	go func() {
		defer close(done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-reset:
				t.Reset(interval)
			case <-t.C:
				p.step(1)
			}
		}
	}()
}

func (p *Accueil) resetAutoPlay() {
	p.mu.Lock()
	reset := p.reset
	p.mu.Unlock()
	if reset == nil {
		return
	}
	select {
	case reset <- struct{}{}:
	default:
	}
}

func (p *Accueil) initFilterButtons() {
	for _, btn := range p.doc.QuerySelectorAll(".event-filter-btn") {
		btn := btn
		btn.AddEventListener("click", func(ev *dom.Event) {
			filter := btn.Data("filter")
			p.logger.Info("filter applied", "filter", filter)
			p.env.Nav.Navigate(ev.Context(), "/evenements?filter="+url.QueryEscape(filter))
		})
	}
}
