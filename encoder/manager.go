package encoder

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/go-ng/xatomic"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/types"
	"github.com/xaionaro-go/xsync"
)

// Manager is the registry of handlers and the factories built from them.
type Manager struct {
	locker       xsync.Mutex
	backend      Backend
	opts         Options
	handlers     map[string]Handler
	debugHandler Handler
	factories    []*Factory
}

func NewManager(
	backend Backend,
	opts ...Option,
) *Manager {
	m := &Manager{
		backend:  backend,
		opts:     opts,
		handlers: map[string]Handler{},
	}
	if opt, ok := OptionLatest[OptionDebugHandler](opts); ok {
		m.debugHandler = opt.Handler
	}
	return m
}

func (m *Manager) Backend() Backend {
	return m.backend
}

// RegisterHandler binds h to the encoder named codecName, replacing any
// previous binding.
func (m *Manager) RegisterHandler(codecName string, h Handler) {
	m.locker.Do(context.Background(), func() {
		m.handlers[codecName] = h
	})
}

// Handler returns the handler of codecName, the debug handler if there is
// none, or nil.
func (m *Manager) Handler(codecName string) Handler {
	return xsync.DoR1(context.Background(), &m.locker, func() Handler {
		return m.handlerLocked(codecName)
	})
}

func (m *Manager) handlerLocked(codecName string) Handler {
	if h, ok := m.handlers[codecName]; ok {
		return h
	}
	return m.debugHandler
}

// RegisterEncoders creates a factory for every audio and video encoder of
// the backend. A failing codec does not prevent the others from being
// registered; the failures are returned joined.
func (m *Manager) RegisterEncoders(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "RegisterEncoders")
	defer func() { logger.Tracef(ctx, "/RegisterEncoders: %v", _err) }()

	mediaTypes := []types.MediaType{types.MediaTypeVideo, types.MediaTypeAudio}
	if opt, ok := OptionLatest[OptionMediaTypes](m.opts); ok {
		mediaTypes = opt.MediaTypes
	}

	var errs []error
	for _, codec := range m.backend.Codecs(ctx) {
		if !slices.Contains(mediaTypes, codec.MediaType()) {
			continue
		}
		f, err := m.registerEncoder(ctx, codec)
		if err != nil {
			logger.Warnf(ctx, "unable to register encoder '%s': %v", codec.Name(), err)
			errs = append(errs, err)
			continue
		}
		logger.Debugf(ctx, "registered encoder '%s' as '%s'", codec.Name(), f.Info.ID)
	}
	return errors.Join(errs...)
}

func (m *Manager) registerEncoder(
	ctx context.Context,
	codec Codec,
) (_ret *Factory, _err error) {
	defer func() {
		if r := recover(); r != nil {
			_err = fmt.Errorf("got panic while registering '%s': %v\n%s", codec.Name(), r, debug.Stack())
		}
	}()
	f := NewFactory(ctx, m.backend, codec, m.Handler(codec.Name()), m.opts...)
	return f, xsync.DoR1(ctx, &m.locker, func() error {
		for _, other := range m.factories {
			if other.Info.ID == f.Info.ID {
				return fmt.Errorf("encoder '%s' is already registered", codec.Name())
			}
		}
		m.factories = append(m.factories, f)
		return nil
	})
}

func (m *Manager) Factories() []*Factory {
	return xsync.DoR1(context.Background(), &m.locker, func() []*Factory {
		return slices.Clone(m.factories)
	})
}

// Factory finds a factory by its id or any of its proxy ids.
func (m *Manager) Factory(id string) *Factory {
	return xsync.DoR1(context.Background(), &m.locker, func() *Factory {
		for _, f := range m.factories {
			if f.Matches(id) {
				return f
			}
		}
		return nil
	})
}

// FactoryByCodecName finds the factory of the encoder named name.
func (m *Manager) FactoryByCodecName(name string) *Factory {
	return m.Factory(FactoryIDPrefix + strings.TrimPrefix(name, FactoryIDPrefix))
}

var (
	defaultManagerLocker xsync.Mutex
	defaultManager       *Manager
)

// Initialize creates the process-wide Manager. It fails if one exists
// already; call Finalize first.
func Initialize(
	ctx context.Context,
	backend Backend,
	register func(m *Manager),
	opts ...Option,
) (*Manager, error) {
	return xsync.DoR2(ctx, &defaultManagerLocker, func() (*Manager, error) {
		if xatomic.LoadPointer(&defaultManager) != nil {
			return nil, fmt.Errorf("the encoder manager is already initialized")
		}
		m := NewManager(backend, opts...)
		if register != nil {
			register(m)
		}
		if err := m.RegisterEncoders(ctx); err != nil {
			logger.Warnf(ctx, "some encoders were not registered: %v", err)
		}
		xatomic.StorePointer(&defaultManager, m)
		return m, nil
	})
}

// Finalize drops the process-wide Manager.
func Finalize(ctx context.Context) {
	defaultManagerLocker.Do(ctx, func() {
		xatomic.StorePointer(&defaultManager, (*Manager)(nil))
	})
}

// Default returns the process-wide Manager, or nil before Initialize.
func Default() *Manager {
	return xatomic.LoadPointer(&defaultManager)
}
