// Package serialize assembles the entropy-coding model header onto a
// bitio.Writer: per-cluster histogram encoding (ANS or prefix), the
// hybrid-uint configuration table, and the context map.
package serialize

import (
	"math/bits"

	"github.com/deepteams/jxlentropy/internal/ans"
	"github.com/deepteams/jxlentropy/internal/hybriduint"
)

func ceilLog2Nonzero(n uint32) int {
	if n <= 1 {
		return 0
	}
	return bits.Len32(n - 1)
}

// EncodeUintConfig writes one hybrid-uint config relative to the
// model's log_alpha_size: split_exponent is written in just enough
// bits to span [0, logAlphaSize], and — unless it equals logAlphaSize,
// the "no split" sentinel that needs no further fields —
// msb_in_token and lsb_in_token follow, each bounded by the bits
// split_exponent leaves available. This is a self-consistent,
// round-trippable rendering of the config-table wire format; the
// exact bit layout of the original EncodeUintConfig (in a header not
// present in the retrieved reference sources) was not available to
// check this against, so treat it as this codebase's own format, not
// a verified-compatible one.
func EncodeUintConfig(w ans.Sink, cfg hybriduint.Config, logAlphaSize int) error {
	splitBits := ceilLog2Nonzero(uint32(logAlphaSize + 1))
	if err := w.Write(splitBits, uint64(cfg.SplitExponent)); err != nil {
		return err
	}
	if cfg.SplitExponent == logAlphaSize {
		return nil
	}
	msbBits := ceilLog2Nonzero(uint32(cfg.SplitExponent + 1))
	if err := w.Write(msbBits, uint64(cfg.MsbInToken)); err != nil {
		return err
	}
	lsbBits := ceilLog2Nonzero(uint32(cfg.SplitExponent - cfg.MsbInToken + 1))
	return w.Write(lsbBits, uint64(cfg.LsbInToken))
}

// EncodeUintConfigs writes every config in configs, in slice order;
// Model.Encode passes its UintConfigs, which hold one config per
// context.
func EncodeUintConfigs(w ans.Sink, configs []hybriduint.Config, logAlphaSize int) error {
	for _, cfg := range configs {
		if err := EncodeUintConfig(w, cfg, logAlphaSize); err != nil {
			return err
		}
	}
	return nil
}
