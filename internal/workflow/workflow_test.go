package workflow

import (
	"testing"

	"github.com/yungbote/postforge-backend/internal/types"
)

var allPlatforms = []string{
	types.PlatformLinkedIn,
	types.PlatformYouTube,
	types.PlatformFacebook,
}

func TestStepsShape(t *testing.T) {
	for _, p := range allPlatforms {
		steps := Steps(p)
		if len(steps) == 0 {
			t.Fatalf("Steps(%q) is empty", p)
		}
		if steps[0] != StepSetup {
			t.Fatalf("Steps(%q) does not start with setup: %v", p, steps)
		}
		terminal := 0
		for _, s := range steps {
			if s == StepComplete {
				terminal++
			}
		}
		if terminal != 1 {
			t.Fatalf("Steps(%q) has %d terminal steps, want 1", p, terminal)
		}
		if steps[len(steps)-1] != StepComplete {
			t.Fatalf("Steps(%q) does not end with complete: %v", p, steps)
		}
	}
}

func TestNextPreviousStayInBounds(t *testing.T) {
	for _, p := range allPlatforms {
		steps := Steps(p)
		member := map[string]bool{}
		for _, s := range steps {
			member[s] = true
		}
		for _, s := range steps {
			if n := Next(p, s); !member[n] {
				t.Fatalf("Next(%q, %q) = %q not in steps", p, s, n)
			}
			if pr := Previous(p, s); !member[pr] {
				t.Fatalf("Previous(%q, %q) = %q not in steps", p, s, pr)
			}
		}
	}
}

func TestBoundaryClamping(t *testing.T) {
	if got := Previous(types.PlatformLinkedIn, StepSetup); got != StepSetup {
		t.Fatalf("Previous at first step = %q, want setup", got)
	}
	if got := Next(types.PlatformLinkedIn, StepComplete); got != StepComplete {
		t.Fatalf("Next at terminal step = %q, want complete", got)
	}
}

func TestNextOrdering(t *testing.T) {
	cases := []struct {
		platform string
		from     string
		want     string
	}{
		{types.PlatformLinkedIn, StepSetup, StepHooks},
		{types.PlatformLinkedIn, StepHooks, StepBody},
		{types.PlatformLinkedIn, StepCTAs, StepVisuals},
		{types.PlatformYouTube, StepHooks, StepIntros},
		{types.PlatformYouTube, StepBody, StepTitles},
		{types.PlatformYouTube, StepCTAs, StepThumbnails},
		{types.PlatformFacebook, StepBody, StepCTAs},
	}
	for _, tc := range cases {
		if got := Next(tc.platform, tc.from); got != tc.want {
			t.Errorf("Next(%q, %q) = %q, want %q", tc.platform, tc.from, got, tc.want)
		}
	}
}

func TestIsComplete(t *testing.T) {
	for _, p := range allPlatforms {
		for _, s := range Steps(p) {
			want := s == StepComplete
			if got := IsComplete(p, s); got != want {
				t.Errorf("IsComplete(%q, %q) = %v, want %v", p, s, got, want)
			}
		}
	}
}

func TestValidMembership(t *testing.T) {
	if Valid(types.PlatformLinkedIn, StepThumbnails) {
		t.Fatalf("thumbnails should not be valid for linkedin")
	}
	if !Valid(types.PlatformYouTube, StepThumbnails) {
		t.Fatalf("thumbnails should be valid for youtube")
	}
	if Valid(types.PlatformLinkedIn, "nonsense") {
		t.Fatalf("unknown step should not be valid")
	}
}

func TestCarouselCapable(t *testing.T) {
	if !CarouselCapable(types.PlatformLinkedIn) || !CarouselCapable(types.PlatformFacebook) {
		t.Fatalf("linkedin and facebook should be carousel capable")
	}
	if CarouselCapable(types.PlatformYouTube) {
		t.Fatalf("youtube should not be carousel capable")
	}
}
