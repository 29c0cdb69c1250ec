package classic

import (
	"context"
	"log"
	"time"

	"github.com/libdriver/mifare-classic/frame"
	"github.com/libdriver/mifare-classic/transceiver"
)

// Options carries the two configuration knobs the original C driver
// exposed at handle construction (spec §6): the gap between anticollision
// attempts in Search, and whether advisory debug text is emitted.
type Options struct {
	SearchRetryDelay time.Duration
	DebugEnabled     bool
}

// defaultOptions matches the original driver's defaults: 200ms between
// search attempts, debug printing on.
func defaultOptions() Options {
	return Options{SearchRetryDelay: 200 * time.Millisecond, DebugEnabled: true}
}

// Option configures a Handle at construction time (functional-options
// pattern).
type Option func(*Options)

// WithSearchRetryDelay overrides the delay between Search's anticollision
// attempts.
func WithSearchRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.SearchRetryDelay = d }
}

// WithDebugEnabled toggles whether DebugPrint is invoked.
func WithDebugEnabled(enabled bool) Option {
	return func(o *Options) { o.DebugEnabled = enabled }
}

// Handle is a MIFARE Classic driver instance bound to one transceiver.Port.
// It owns all per-card session state: the cached UID and card type from
// the last successful activation, and the sector currently authenticated.
//
// The zero value is not usable; construct with New.
type Handle struct {
	port transceiver.Port
	opts Options

	// DebugPrint receives advisory protocol trace text, mirroring the
	// original driver's debug_print callback. It defaults to a
	// log.Printf-backed implementation when opts.DebugEnabled is true,
	// and a no-op otherwise.
	DebugPrint func(format string, args ...any)

	inited bool

	// session state (spec §3's Session type)
	uid        [4]byte
	haveUID    bool
	cardType   frame.CardType
	authSector int // -1 means "no sector currently authenticated"
}

// New constructs a Handle bound to port. The handle is not usable until
// Init succeeds.
func New(port transceiver.Port, opts ...Option) *Handle {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	h := &Handle{port: port, opts: o, authSector: -1}
	if o.DebugEnabled {
		h.DebugPrint = func(format string, args ...any) { log.Printf(format, args...) }
	} else {
		h.DebugPrint = func(format string, args ...any) {}
	}
	return h
}

// Init binds the transceiver and marks the handle ready for use. It must
// be called once before any other method.
func (h *Handle) Init(ctx context.Context) error {
	if err := h.port.Init(ctx); err != nil {
		return ErrContactlessFailed
	}
	h.inited = true
	h.debugf("classic: initialized")
	return nil
}

// Deinit releases the transceiver and clears session state. A Handle may
// be re-initialized with Init after Deinit.
func (h *Handle) Deinit(ctx context.Context) error {
	h.inited = false
	h.haveUID = false
	h.cardType = frame.TypeInvalid
	h.authSector = -1
	if err := h.port.Deinit(ctx); err != nil {
		return ErrContactlessFailed
	}
	return nil
}

func (h *Handle) checkInited() error {
	if !h.inited {
		return ErrNotInitialized
	}
	return nil
}

func (h *Handle) debugf(format string, args ...any) {
	if h.opts.DebugEnabled && h.DebugPrint != nil {
		h.DebugPrint(format, args...)
	}
}

// ChipInfo is static chip metadata, adapted from the original driver's
// mifare_classic_info_t. It performs no I/O.
type ChipInfo struct {
	ChipName          string
	ManufacturerName  string
	Interface         string
	SupplyVoltageMinV float32
	SupplyVoltageMaxV float32
	MaxCurrentMA      float32
	TemperatureMinC   float32
	TemperatureMaxC   float32
	DriverVersion     int
}

// Info returns static MIFARE Classic EV1 chip metadata, for parity with
// callers that introspect the driver the way the original example's
// mifare_classic_basic_init logs it at startup.
func Info() ChipInfo {
	return ChipInfo{
		ChipName:          "NXP MIFARE Classic EV1",
		ManufacturerName:  "NXP",
		Interface:         "RF",
		SupplyVoltageMinV: 3.3,
		SupplyVoltageMaxV: 4.0,
		MaxCurrentMA:      30.0,
		TemperatureMinC:   -25.0,
		TemperatureMaxC:   70.0,
		DriverVersion:     1000,
	}
}
