package engine

import "fmt"

// Request names the engine combination the user asked for.
type Request string

const (
	// RequestAuto uses the aligned engine when it looks usable.
	RequestAuto Request = "auto"
	// RequestBase never attempts the aligned engine.
	RequestBase Request = "base"
	// RequestAligned demands the aligned engine; failure is fatal for the
	// file rather than a silent fallback.
	RequestAligned Request = "aligned"
)

// DiarizeMode names the diarization request.
type DiarizeMode string

const (
	DiarizeAuto DiarizeMode = "auto"
	DiarizeOn   DiarizeMode = "on"
	DiarizeOff  DiarizeMode = "off"
)

// Availability is the tri-state result of probing the aligned runtime. A
// probe that cannot prove either way reports Unknown instead of guessing.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	Available
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Inputs collects everything the selection policy looks at.
type Inputs struct {
	Request        Request
	Aligned        Availability
	Diarize        DiarizeMode
	HFTokenPresent bool
}

// Decision is the policy output consumed by the pipeline.
type Decision struct {
	// UseAligned runs the word-alignment engine.
	UseAligned bool
	// AlignedRequired makes an aligned-engine failure fatal for the file
	// instead of degrading to approximation.
	AlignedRequired bool
	// UseDiarization requests speaker turns from the aligned engine.
	// Never true without UseAligned; diarization data only arrives via the
	// aligned path.
	UseDiarization bool
	// DiarizationSkipped is set when diarization was requested but cannot
	// run without a Hugging Face token. Alignment still proceeds, just
	// undiarized; losing word timing over a missing token would punish the
	// wrong feature.
	DiarizationSkipped bool
}

// Decide applies the selection rules in order. It is a pure function so the
// engine-vs-engine policy can be tested in isolation from any process state.
func Decide(in Inputs) (Decision, error) {
	var d Decision
	switch in.Request {
	case RequestBase:
		d.UseAligned = false
	case RequestAligned:
		// The user explicitly asked; attempt even when the probe says
		// unavailable and let the failure surface.
		d.UseAligned = true
		d.AlignedRequired = true
	case RequestAuto, "":
		// Unknown still attempts: auto mode degrades gracefully on
		// failure, so only a definite Unavailable skips the attempt.
		d.UseAligned = in.Aligned != Unavailable
	default:
		return Decision{}, fmt.Errorf("unknown engine request %q", in.Request)
	}

	switch in.Diarize {
	case DiarizeOn:
		d.UseDiarization = d.UseAligned && in.HFTokenPresent
		d.DiarizationSkipped = d.UseAligned && !in.HFTokenPresent
	case DiarizeAuto, "":
		d.UseDiarization = d.UseAligned && in.HFTokenPresent
	case DiarizeOff:
		d.UseDiarization = false
	default:
		return Decision{}, fmt.Errorf("unknown diarize mode %q", in.Diarize)
	}
	return d, nil
}

// ParseRequest normalizes a configuration string into a Request.
func ParseRequest(value string) (Request, error) {
	switch Request(value) {
	case RequestAuto, RequestBase, RequestAligned:
		return Request(value), nil
	case "":
		return RequestAuto, nil
	default:
		return "", fmt.Errorf("unknown engine request %q", value)
	}
}

// ParseDiarizeMode normalizes a configuration string into a DiarizeMode.
func ParseDiarizeMode(value string) (DiarizeMode, error) {
	switch DiarizeMode(value) {
	case DiarizeAuto, DiarizeOn, DiarizeOff:
		return DiarizeMode(value), nil
	case "":
		return DiarizeAuto, nil
	default:
		return "", fmt.Errorf("unknown diarize mode %q", value)
	}
}
