package theme

import (
	"context"
	"fmt"
	"sync"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey — ключ, под которым тема лежит в настройках пользователя.
const StorageKey = "ui_theme"

func Parse(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return "", false
}

func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) Title() string {
	if t == Dark {
		return "🌙 Тёмная"
	}
	return "☀️ Светлая"
}

type Store interface {
	Get(ctx context.Context, owner int64, key string) (string, bool, error)
	Set(ctx context.Context, owner int64, key, value string) error
}

// Provider — тема одного пользователя: чтение из хранилища при Init,
// запись при смене и оповещение подписчиков. Close снимает всех подписчиков.
type Provider struct {
	store  Store
	owner  int64
	system Theme

	mu        sync.Mutex
	current   Theme
	listeners map[int]func(Theme)
	nextID    int
	closed    bool
}

func NewProvider(store Store, owner int64, system Theme) *Provider {
	if _, ok := Parse(string(system)); !ok {
		system = Light
	}
	return &Provider{store: store, owner: owner, system: system, current: system, listeners: map[int]func(Theme){}}
}

// Init читает сохранённую тему; если её нет или она битая — берёт системную.
// Ошибка хранилища тоже не фатальна: остаётся системная тема.
func (p *Provider) Init(ctx context.Context) (Theme, error) {
	v, ok, err := p.store.Get(ctx, p.owner, StorageKey)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.system
	if err != nil {
		return p.current, fmt.Errorf("read theme: %w", err)
	}
	if ok {
		if t, valid := Parse(v); valid {
			p.current = t
		}
	}
	return p.current, nil
}

func (p *Provider) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Set сохраняет тему и оповещает подписчиков.
func (p *Provider) Set(ctx context.Context, t Theme) error {
	if _, ok := Parse(string(t)); !ok {
		return fmt.Errorf("unknown theme %q", t)
	}
	if err := p.store.Set(ctx, p.owner, StorageKey, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}

	p.mu.Lock()
	p.current = t
	ls := make([]func(Theme), 0, len(p.listeners))
	for _, fn := range p.listeners {
		ls = append(ls, fn)
	}
	p.mu.Unlock()

	for _, fn := range ls {
		fn(t)
	}
	return nil
}

func (p *Provider) Toggle(ctx context.Context) (Theme, error) {
	next := p.Theme().Toggle()
	if err := p.Set(ctx, next); err != nil {
		return p.Theme(), err
	}
	return next, nil
}

// Subscribe добавляет подписчика; возвращает функцию отписки.
func (p *Provider) Subscribe(fn func(Theme)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return func() {}
	}
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.listeners = map[int]func(Theme){}
}
