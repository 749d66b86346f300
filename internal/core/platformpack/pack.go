// Package platformpack loads and compiles per-platform extraction rules from
// the embedded platforms.json.
// It prepares regex pattern sets for the notification parser and accept-control
// signatures for the UI matcher; one table, looked up by source package, keeps
// platform differences out of the pipeline code
package platformpack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"

	"ordersnag/internal/core/textnorm"
)

//go:embed platforms.json
var embedded []byte

type rawPlatform struct {
	ID               string            `json:"id"`
	DisplayName      string            `json:"display_name"`
	Packages         []string          `json:"packages"`
	AmountPatterns   []string          `json:"amount_patterns"`
	DistancePatterns []string          `json:"distance_patterns"`
	EtaPatterns      []string          `json:"eta_patterns"`
	PriorityKeywords map[string]string `json:"priority_keywords,omitempty"`
	AcceptLabels     []string          `json:"accept_labels"`
	AcceptIDHints    []string          `json:"accept_id_hints,omitempty"`
	DeclineLabels    []string          `json:"decline_labels,omitempty"`
}

type rawPack struct {
	Version   int            `json:"version"`
	Meta      map[string]any `json:"meta"`
	Platforms []rawPlatform  `json:"platforms"`
}

// Platform is one compiled per-platform record
type Platform struct {
	ID          string
	DisplayName string
	Packages    []string

	// Compiled extraction patterns, tried in order; first hit wins
	Amount   []*regexp.Regexp
	Distance []*regexp.Regexp
	Eta      []*regexp.Regexp

	// Normalized keyword -> tier ("low" | "medium" | "high")
	PriorityKeywords map[string]string

	// Accept-control signatures, normalized, ordered by preference
	AcceptLabels  []string
	AcceptIDHints []string
	DeclineLabels []string
}

// Pack represents the compiled platform table
type Pack struct {
	Version   int
	Meta      map[string]any
	Platforms []Platform

	byPackage map[string]*Platform
}

// Load returns the compiled pack from the embedded platforms.json
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("platformpack: parse embedded json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("platformpack: unsupported version %d", rp.Version)
	}

	norm := textnorm.New()

	p := &Pack{
		Version:   rp.Version,
		Meta:      rp.Meta,
		Platforms: make([]Platform, 0, len(rp.Platforms)),
		byPackage: make(map[string]*Platform),
	}

	for _, r := range rp.Platforms {
		if r.ID == "" || len(r.Packages) == 0 {
			return nil, fmt.Errorf("platformpack: platform missing id or packages")
		}

		plat := Platform{
			ID:               r.ID,
			DisplayName:      r.DisplayName,
			Packages:         r.Packages,
			PriorityKeywords: make(map[string]string, len(r.PriorityKeywords)),
		}

		var err error
		if plat.Amount, err = compileAll(r.ID, "amount", r.AmountPatterns); err != nil {
			return nil, err
		}
		if plat.Distance, err = compileAll(r.ID, "distance", r.DistancePatterns); err != nil {
			return nil, err
		}
		if plat.Eta, err = compileAll(r.ID, "eta", r.EtaPatterns); err != nil {
			return nil, err
		}
		if len(plat.Amount) == 0 {
			return nil, fmt.Errorf("platformpack: platform %q has no amount patterns", r.ID)
		}

		for kw, tier := range r.PriorityKeywords {
			switch tier {
			case "low", "medium", "high":
			default:
				return nil, fmt.Errorf("platformpack: platform %q keyword %q has bad tier %q", r.ID, kw, tier)
			}
			plat.PriorityKeywords[norm.Normalize(kw)] = tier
		}

		for _, l := range r.AcceptLabels {
			plat.AcceptLabels = append(plat.AcceptLabels, norm.Normalize(l))
		}
		for _, l := range r.AcceptIDHints {
			plat.AcceptIDHints = append(plat.AcceptIDHints, norm.Normalize(l))
		}
		for _, l := range r.DeclineLabels {
			plat.DeclineLabels = append(plat.DeclineLabels, norm.Normalize(l))
		}
		if len(plat.AcceptLabels) == 0 {
			return nil, fmt.Errorf("platformpack: platform %q has no accept labels", r.ID)
		}

		p.Platforms = append(p.Platforms, plat)
	}

	// index after append so pointers are stable
	for i := range p.Platforms {
		for _, pkg := range p.Platforms[i].Packages {
			if _, dup := p.byPackage[pkg]; dup {
				return nil, fmt.Errorf("platformpack: package %q claimed by two platforms", pkg)
			}
			p.byPackage[pkg] = &p.Platforms[i]
		}
	}

	return p, nil
}

// MustLoad is Load for wiring paths where a broken embedded pack is fatal
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// ForPackage returns the platform record owning the given source package
func (p *Pack) ForPackage(pkg string) (*Platform, bool) {
	plat, ok := p.byPackage[pkg]
	return plat, ok
}

func compileAll(platform, kind string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("platformpack: platform %q %s pattern %q: %w", platform, kind, pat, err)
		}
		out = append(out, re)
	}
	return out, nil
}
