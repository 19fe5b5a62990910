package watcher

import (
	"time"

	"github.com/vanderheijden86/coursemap/pkg/catalog"
	"github.com/vanderheijden86/coursemap/pkg/loader"
	"github.com/vanderheijden86/coursemap/pkg/model"
)

// Reload is the outcome of re-reading a watched catalog file. Err is set
// when the file could not be read or parsed; the previous catalog stays valid.
type Reload struct {
	File    model.CatalogFile
	Catalog *catalog.Catalog
	Err     error
	At      time.Time
}

// Reloader rebuilds a catalog whenever its file changes.
type Reloader struct {
	path string
	opts loader.Options
	w    *Watcher
	out  chan Reload
}

// NewReloader watches the catalog at path. Watcher options are passed
// through; change and error callbacks are owned by the reloader.
func NewReloader(path string, opts loader.Options, wopts ...Option) (*Reloader, error) {
	r := &Reloader{path: path, opts: opts, out: make(chan Reload, 1)}
	wopts = append(wopts, WithOnChange(r.reload), WithOnError(r.fail))
	w, err := NewWatcher(path, wopts...)
	if err != nil {
		return nil, err
	}
	r.w = w
	return r, nil
}

// Start begins watching.
func (r *Reloader) Start() error { return r.w.Start() }

// Stop stops watching.
func (r *Reloader) Stop() { r.w.Stop() }

// Watcher exposes the underlying file watcher.
func (r *Reloader) Watcher() *Watcher { return r.w }

// Reloads delivers the latest reload result. Older undelivered results are
// replaced by newer ones.
func (r *Reloader) Reloads() <-chan Reload { return r.out }

func (r *Reloader) reload() {
	cf, err := loader.Load(r.path, r.opts)
	if err != nil {
		r.publish(Reload{Err: err, At: time.Now()})
		return
	}
	r.publish(Reload{File: cf, Catalog: catalog.Build(cf.Courses), At: time.Now()})
}

func (r *Reloader) fail(err error) {
	r.publish(Reload{Err: err, At: time.Now()})
}

func (r *Reloader) publish(res Reload) {
	for {
		select {
		case r.out <- res:
			return
		default:
		}
		select {
		case <-r.out:
		default:
		}
	}
}
