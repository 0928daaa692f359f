package workflow

import "github.com/yungbote/postforge-backend/internal/types"

// Step identifiers shared across platforms. Not every platform uses every
// step; Steps(platform) is the authority on ordering and membership.
const (
	StepSetup      = "setup"
	StepHooks      = "hooks"
	StepIntros     = "intros"
	StepBody       = "body"
	StepTitles     = "titles"
	StepCTAs       = "ctas"
	StepVisuals    = "visuals"
	StepThumbnails = "thumbnails"
	StepComplete   = "complete"
)

var platformSteps = map[string][]string{
	types.PlatformLinkedIn: {StepSetup, StepHooks, StepBody, StepCTAs, StepVisuals, StepComplete},
	types.PlatformYouTube:  {StepSetup, StepHooks, StepIntros, StepBody, StepTitles, StepCTAs, StepThumbnails, StepComplete},
	types.PlatformFacebook: {StepSetup, StepHooks, StepBody, StepCTAs, StepVisuals, StepComplete},
}

var stepLabels = map[string]string{
	StepSetup:      "Project Setup",
	StepHooks:      "Hooks",
	StepIntros:     "Intros",
	StepBody:       "Body",
	StepTitles:     "Titles",
	StepCTAs:       "Calls to Action",
	StepVisuals:    "Visual Concepts",
	StepThumbnails: "Thumbnails",
	StepComplete:   "Complete",
}

var carouselCapable = map[string]bool{
	types.PlatformLinkedIn: true,
	types.PlatformFacebook: true,
}

// Steps returns the ordered step list for a platform. Unknown platforms get
// the linkedin ordering so callers always receive a usable sequence.
func Steps(platform string) []string {
	steps, ok := platformSteps[platform]
	if !ok {
		steps = platformSteps[types.PlatformLinkedIn]
	}
	out := make([]string, len(steps))
	copy(out, steps)
	return out
}

// Next returns the step after current, or current itself at the terminal
// boundary. Unknown steps clamp to the first step.
func Next(platform, current string) string {
	steps := Steps(platform)
	for i, s := range steps {
		if s == current {
			if i+1 < len(steps) {
				return steps[i+1]
			}
			return s
		}
	}
	return steps[0]
}

// Previous returns the step before current, or current itself at the first
// boundary. Unknown steps clamp to the first step.
func Previous(platform, current string) string {
	steps := Steps(platform)
	for i, s := range steps {
		if s == current {
			if i > 0 {
				return steps[i-1]
			}
			return s
		}
	}
	return steps[0]
}

// Valid reports whether step is a member of the platform's step list. Random
// access (e.g. clicking a step indicator) is gated only by membership, not by
// completion prerequisites; the UI decides whether to gate navigation.
func Valid(platform, step string) bool {
	for _, s := range Steps(platform) {
		if s == step {
			return true
		}
	}
	return false
}

// IsComplete is true only for the terminal step.
func IsComplete(platform, step string) bool {
	steps := Steps(platform)
	return len(steps) > 0 && steps[len(steps)-1] == step && step == StepComplete
}

// Label returns the human-readable name of a step, falling back to the raw
// identifier.
func Label(step string) string {
	if l, ok := stepLabels[step]; ok {
		return l
	}
	return step
}

// CarouselCapable reports whether the platform supports carousel posts.
func CarouselCapable(platform string) bool {
	return carouselCapable[platform]
}
