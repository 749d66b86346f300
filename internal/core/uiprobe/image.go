package uiprobe

import (
	"image"
	"math"
)

// Image-path tuning. Matches below the correlation threshold are discarded;
// accepted matches map linearly onto the [0.4, 0.7] confidence band, which
// keeps every image result below the executor's direct-action floor
const (
	imageCorrThreshold = 0.60
	confImageMin       = 0.40
	confImageMax       = 0.70

	// coarse scan stride; several coarse candidates are refined with stride 1
	scanStride = 2

	// refineCandidates bounds how many coarse cells get a fine pass.
	// On high-frequency patches the strided grid aliases: the cells adjacent
	// to the true peak can score near zero while a sidelobe a few pixels away
	// wins the coarse pass, so a single anchor is not enough
	refineCandidates = 4

	// refineRadius must cover the distance from an aliased sidelobe to the
	// true peak, not just the stride cell
	refineRadius = 3 * scanStride
)

// Patch is a known grayscale reference of an accept control
type Patch struct {
	Name string
	Img  *image.Gray
}

// FindInImage slides each reference patch over the screen capture and keeps
// the strongest zero-mean normalized cross-correlation. The fallback path:
// slower than tree search and never confident enough to act without a prompt
func (m *Matcher) FindInImage(screen *image.Gray, patches []Patch) (Match, bool) {
	if screen == nil {
		return Match{}, false
	}

	best := -1.0
	var bestX, bestY int
	var bestPatch *Patch

	for i := range patches {
		p := &patches[i]
		if p.Img == nil {
			continue
		}
		score, x, y := bestCorrelation(screen, p.Img)
		if score > best {
			best, bestX, bestY, bestPatch = score, x, y, p
		}
	}

	if bestPatch == nil || best < imageCorrThreshold {
		return Match{}, false
	}

	pb := bestPatch.Img.Bounds()
	conf := confImageMin + (confImageMax-confImageMin)*(best-imageCorrThreshold)/(1-imageCorrThreshold)
	if conf > confImageMax {
		// a numerically perfect correlation must not escape the band
		conf = confImageMax
	}

	return Match{
		Handle:     Handle{Kind: HandlePoint, X: bestX + pb.Dx()/2, Y: bestY + pb.Dy()/2},
		Confidence: conf,
		Path:       PathImage,
	}, true
}

// coarseHit is one retained candidate from the strided pass
type coarseHit struct {
	score float64
	x, y  int
}

// keepCandidate inserts h into the score-ordered fixed-capacity candidate
// list, dropping the weakest when full
func keepCandidate(cands *[]coarseHit, h coarseHit) {
	c := *cands
	if len(c) < cap(c) {
		c = append(c, h)
	} else if h.score > c[len(c)-1].score {
		c[len(c)-1] = h
	} else {
		return
	}
	for i := len(c) - 1; i > 0 && c[i].score > c[i-1].score; i-- {
		c[i], c[i-1] = c[i-1], c[i]
	}
	*cands = c
}

// bestCorrelation scans patch over screen with a coarse stride, then refines
// the neighborhoods of the strongest coarse candidates with stride 1
func bestCorrelation(screen, patch *image.Gray) (score float64, x, y int) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	pw, ph := patch.Bounds().Dx(), patch.Bounds().Dy()
	if pw == 0 || ph == 0 || pw > sw || ph > sh {
		return -1, 0, 0
	}

	pMean, pVar := meanVar(patch, 0, 0, pw, ph)
	if pVar == 0 {
		// flat patch correlates with anything; useless as a signature
		return -1, 0, 0
	}

	cands := make([]coarseHit, 0, refineCandidates)
	for oy := 0; oy <= sh-ph; oy += scanStride {
		for ox := 0; ox <= sw-pw; ox += scanStride {
			keepCandidate(&cands, coarseHit{ncc(screen, patch, ox, oy, pMean, pVar), ox, oy})
		}
	}

	best := -1.0
	bx, by := 0, 0
	for _, c := range cands {
		for oy := max(0, c.y-refineRadius); oy <= min(sh-ph, c.y+refineRadius); oy++ {
			for ox := max(0, c.x-refineRadius); ox <= min(sw-pw, c.x+refineRadius); ox++ {
				if s := ncc(screen, patch, ox, oy, pMean, pVar); s > best {
					best, bx, by = s, ox, oy
				}
			}
		}
	}

	return best, bx, by
}

// ncc computes zero-mean normalized cross-correlation of patch against the
// screen window whose top-left sits (ox, oy) pixels from the screen's origin.
// Indexing is origin-relative so sub-images work as patches
func ncc(screen, patch *image.Gray, ox, oy int, pMean, pVar float64) float64 {
	pw, ph := patch.Bounds().Dx(), patch.Bounds().Dy()

	sMean, sVar := meanVar(screen, ox, oy, pw, ph)
	if sVar == 0 {
		return -1
	}

	var cross float64
	for y := 0; y < ph; y++ {
		si := (oy+y)*screen.Stride + ox
		pi := y * patch.Stride
		srow := screen.Pix[si : si+pw]
		prow := patch.Pix[pi : pi+pw]
		for x := 0; x < pw; x++ {
			cross += (float64(srow[x]) - sMean) * (float64(prow[x]) - pMean)
		}
	}

	return cross / math.Sqrt(sVar*pVar)
}

// meanVar returns the mean and the sum of squared deviations of the w*h
// window whose top-left sits (ox, oy) pixels from the image's origin
func meanVar(img *image.Gray, ox, oy, w, h int) (mean, ssd float64) {
	var sum float64
	for y := 0; y < h; y++ {
		row := img.Pix[(oy+y)*img.Stride+ox : (oy+y)*img.Stride+ox+w]
		for x := 0; x < w; x++ {
			sum += float64(row[x])
		}
	}
	n := float64(w * h)
	mean = sum / n
	for y := 0; y < h; y++ {
		row := img.Pix[(oy+y)*img.Stride+ox : (oy+y)*img.Stride+ox+w]
		for x := 0; x < w; x++ {
			d := float64(row[x]) - mean
			ssd += d * d
		}
	}
	return mean, ssd
}
