package classic

import (
	"context"
	"fmt"

	"github.com/libdriver/mifare-classic/frame"
)

// Timeout is the sum type spec §9 recommends in place of the original
// driver's "negative means unbounded" sentinel integer: either Unbounded
// or a concrete number of retry ticks.
type Timeout struct {
	unbounded bool
	ticks     uint32
}

// UnboundedTimeout returns a Timeout that never expires.
func UnboundedTimeout() Timeout { return Timeout{unbounded: true} }

// Ticks returns a Timeout that allows n failed anticollision rounds before
// expiring. Ticks(0) expires immediately, without attempting a round.
func Ticks(n uint32) Timeout { return Timeout{ticks: n} }

// exchange sends tx and returns the port's response, translating any
// transport error into ErrContactlessFailed.
func (h *Handle) exchange(ctx context.Context, tx []byte) ([]byte, error) {
	rx, err := h.port.Transceive(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContactlessFailed, err)
	}
	return rx, nil
}

// Request sends REQA, validates the ATQA response, and caches the learned
// card type on the handle. It is the Idle -> Ready transition.
func (h *Handle) Request(ctx context.Context) (frame.CardType, error) {
	if err := h.checkInited(); err != nil {
		return frame.TypeInvalid, err
	}
	rx, err := h.exchange(ctx, frame.REQA())
	if err != nil {
		return frame.TypeInvalid, err
	}
	ct, err := frame.ParseATQA(rx)
	if err != nil {
		return frame.TypeInvalid, err
	}
	h.cardType = ct
	h.debugf("classic: request -> %s", ct)
	return ct, nil
}

// WakeUp sends WUPA, which uses identical framing to REQA but also wakes
// a halted card.
func (h *Handle) WakeUp(ctx context.Context) (frame.CardType, error) {
	if err := h.checkInited(); err != nil {
		return frame.TypeInvalid, err
	}
	rx, err := h.exchange(ctx, frame.WUPA())
	if err != nil {
		return frame.TypeInvalid, err
	}
	ct, err := frame.ParseATQA(rx)
	if err != nil {
		return frame.TypeInvalid, err
	}
	h.cardType = ct
	h.debugf("classic: wake_up -> %s", ct)
	return ct, nil
}

// AnticollisionCL1 performs the cascade-level-1 anticollision exchange and
// returns the 4-byte UID, BCC-checked against the response.
func (h *Handle) AnticollisionCL1(ctx context.Context) ([4]byte, error) {
	var uid [4]byte
	if err := h.checkInited(); err != nil {
		return uid, err
	}
	rx, err := h.exchange(ctx, frame.AnticollisionCL1())
	if err != nil {
		return uid, err
	}
	return frame.ParseAnticollision(rx)
}

// AnticollisionCL2 performs the cascade-level-2 anticollision exchange.
// Provided for protocol completeness; the canonical search/value flows use
// only CL1's 4-byte UID.
func (h *Handle) AnticollisionCL2(ctx context.Context) ([4]byte, error) {
	var uid [4]byte
	if err := h.checkInited(); err != nil {
		return uid, err
	}
	rx, err := h.exchange(ctx, frame.AnticollisionCL2())
	if err != nil {
		return uid, err
	}
	return frame.ParseAnticollision(rx)
}

// SelectCL1 completes cascade level 1 for uid and validates the returned
// SAK. It is the Identified -> Active transition.
func (h *Handle) SelectCL1(ctx context.Context, uid [4]byte) error {
	if err := h.checkInited(); err != nil {
		return err
	}
	rx, err := h.exchange(ctx, frame.SelectCL1(uid))
	if err != nil {
		return err
	}
	if err := frame.ParseSAK(rx); err != nil {
		return err
	}
	h.uid = uid
	h.haveUID = true
	h.authSector = -1
	return nil
}

// SelectCL2 completes cascade level 2, symmetric to SelectCL1. Provided
// for completeness; unused by the canonical flows.
func (h *Handle) SelectCL2(ctx context.Context, uid [4]byte) error {
	if err := h.checkInited(); err != nil {
		return err
	}
	rx, err := h.exchange(ctx, frame.SelectCL2(uid))
	if err != nil {
		return err
	}
	return frame.ParseSAK(rx)
}

// Authenticate issues AUTH_KEY_A or AUTH_KEY_B for block's sector. Success
// caches the sector as authenticated; issuing AUTH for a different sector
// implicitly deauthenticates the previous one, per spec §3 (AUTH is
// sector-scoped).
func (h *Handle) Authenticate(ctx context.Context, uid [4]byte, block byte, kind KeyKind, key [6]byte) error {
	if err := h.checkInited(); err != nil {
		return err
	}
	tx := frame.Auth(kind, block, key, uid)
	rx, err := h.exchange(ctx, tx)
	if err != nil {
		return err
	}
	// The RF front-end signals AUTH success with a zero-length response;
	// any bytes returned are unexpected for this exchange.
	if len(rx) != 0 {
		return ErrOutputLenInvalid
	}
	h.uid = uid
	h.haveUID = true
	h.authSector = int(BlockToSector(block))
	h.debugf("classic: authenticated sector %d", h.authSector)
	return nil
}

// AuthenticatedSector returns the sector currently authenticated and true,
// or (0, false) if no sector is authenticated.
func (h *Handle) AuthenticatedSector() (byte, bool) {
	if h.authSector < 0 {
		return 0, false
	}
	return byte(h.authSector), true
}

// Halt sends the HALT command and always returns success if the frame was
// handed to the transceiver: HALT has no confirmed response, so its
// transport result is deliberately swallowed (spec §9's open question).
// It is the Active/Authenticated -> Idle transition.
func (h *Handle) Halt(ctx context.Context) error {
	if err := h.checkInited(); err != nil {
		return err
	}
	_, _ = h.port.Transceive(ctx, frame.Halt())
	h.haveUID = false
	h.cardType = frame.TypeInvalid
	h.authSector = -1
	return nil
}

// SetModulation sets the card's load-modulation strength (spec_full §13,
// original driver's mifare_classic_set_modulation / SET_MOD).
func (h *Handle) SetModulation(ctx context.Context, mod Modulation) error {
	if err := h.checkInited(); err != nil {
		return err
	}
	rx, err := h.exchange(ctx, frame.SetMod(byte(mod)))
	if err != nil {
		return err
	}
	return frame.ParseAck(rx)
}

// Modulation is the load-modulation strength SET_MOD configures, mirroring
// mifare_classic_load_modulation_t.
type Modulation byte

const (
	ModulationNormal Modulation = 0x00
	ModulationStrong Modulation = 0x01
)

// PersonalizedUID selects one of the four UID personalization types
// PERSONALIZE_UID supports, mirroring mifare_classic_personalized_uid_t.
type PersonalizedUID byte

const (
	PersonalizedUIDDoubleISO  PersonalizedUID = 0x00
	PersonalizedUIDDoubleProp PersonalizedUID = 0x40
	PersonalizedUIDSingleRID  PersonalizedUID = 0x20
	PersonalizedUIDSingleNUID PersonalizedUID = 0x60
)

// SetPersonalizedUID issues PERSONALIZE_UID for the given personalization
// type.
func (h *Handle) SetPersonalizedUID(ctx context.Context, kind PersonalizedUID) error {
	if err := h.checkInited(); err != nil {
		return err
	}
	rx, err := h.exchange(ctx, frame.PersonalizeUID(byte(kind)))
	if err != nil {
		return err
	}
	return frame.ParseAck(rx)
}

// Search is the composite activation loop: request -> anticollision_cl1 ->
// select_cl1, retried with a delay between attempts until it succeeds or
// timeout expires. The discovered UID is cached for subsequent
// Authenticate calls made through the public API (Read, Write, the Value*
// and the sector-permission methods).
func (h *Handle) Search(ctx context.Context, timeout Timeout) (frame.CardType, [4]byte, error) {
	var uid [4]byte
	if err := h.checkInited(); err != nil {
		return frame.TypeInvalid, uid, err
	}
	for {
		if !timeout.unbounded && timeout.ticks == 0 {
			return frame.TypeInvalid, uid, ErrTimeout
		}

		ct, err := h.Request(ctx)
		if err == nil {
			if uid, err = h.AnticollisionCL1(ctx); err == nil {
				if err = h.SelectCL1(ctx, uid); err == nil {
					h.debugf("classic: search found %s uid=% X", ct, uid)
					return ct, uid, nil
				}
			}
		}

		if !timeout.unbounded {
			timeout.ticks--
		}
		h.port.DelayMs(ctx, uint32(h.opts.SearchRetryDelay.Milliseconds()))
	}
}
