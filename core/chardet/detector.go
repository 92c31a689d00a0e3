package chardet

import (
	"sort"
)

// PlausibilityFloor is the confidence below which a detection result
// should be treated as uncertain. It is a result state, not an error:
// the ranked list is still returned.
const PlausibilityFloor = 0.6

// DetectionResult is one candidate's score and diagnostic.
type DetectionResult struct {
	Candidate string  `json:"candidate"`
	Score     float64 `json:"score"`
	RawSignal Signal  `json:"raw_signal"`
}

// Result is a full detection run: the winning candidate plus the ranked
// list, sorted descending by score with one row per candidate id.
type Result struct {
	Best       string            `json:"best"`
	Confidence float64           `json:"confidence"`
	Candidates []DetectionResult `json:"candidates"`
}

// Uncertain reports whether no candidate reached the plausibility floor.
// Callers should treat such results as "unknown", not as a failure.
func (r Result) Uncertain() bool {
	return r.Confidence < PlausibilityFloor
}

// Detector runs the byte classifier across the candidate table. It holds
// only the weight table, fixed at construction, so one Detector is safe
// for concurrent use across requests.
type Detector struct {
	weights map[Family]Weights
}

// NewDetector returns a detector with the built-in weight table.
func NewDetector() *Detector {
	return NewDetectorWeights(nil)
}

// NewDetectorWeights returns a detector with per-family weight
// overrides. Families absent from the override keep their defaults. The
// map is copied; later mutation by the caller has no effect.
func NewDetectorWeights(overrides map[Family]Weights) *Detector {
	w := make(map[Family]Weights, len(DefaultWeights))
	for fam, def := range DefaultWeights {
		w[fam] = def
	}
	for fam, ov := range overrides {
		if _, known := w[fam]; known {
			w[fam] = ov
		}
	}
	return &Detector{weights: w}
}

// Detect scores every registered candidate against buf and returns the
// ranked result. All candidates are evaluated; there is no early exit.
// An empty buffer yields the fixed sentinel (default encoding at full
// confidence) rather than an error.
func (d *Detector) Detect(buf []byte) Result {
	if len(buf) == 0 {
		return Result{
			Best:       DefaultEncoding,
			Confidence: 1.0,
			Candidates: []DetectionResult{
				{Candidate: DefaultEncoding, Score: 1.0, RawSignal: Signal{Validity: 1, Plausibility: 1}},
			},
		}
	}

	results := make([]DetectionResult, 0, len(candidates))
	for _, c := range candidates {
		score, sig := classify(c, buf, d.weights[c.Family])
		results = append(results, DetectionResult{
			Candidate: c.ID,
			Score:     score,
			RawSignal: sig,
		})
	}

	// The table is in priority order and the sort is stable, so equal
	// scores resolve to the more structural candidate.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return Result{
		Best:       results[0].Candidate,
		Confidence: results[0].Score,
		Candidates: results,
	}
}
