package replay

import (
	"fmt"

	"github.com/gobwas/glob"
)

// ChannelFilter selects the channels whose inbound markers are tracked,
// using glob patterns with '/' as the segment separator: "/topic/*" matches
// one level below /topic, "/topic/**" matches any depth.
type ChannelFilter struct {
	globs []glob.Glob
}

// NewChannelFilter creates a new glob-based filter
// Empty patterns match everything
func NewChannelFilter(patterns []string) (*ChannelFilter, error) {
	filter := &ChannelFilter{
		globs: make([]glob.Glob, 0, len(patterns)),
	}

	// Compile channel patterns
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid channel pattern %q: %w", pattern, err)
		}
		filter.globs = append(filter.globs, g)
	}

	return filter, nil
}

// Match returns true if the channel matches the configured patterns
// If no patterns are configured, all channels match
func (f *ChannelFilter) Match(channel string) bool {
	// If no channel patterns, match all channels
	if len(f.globs) == 0 {
		return true
	}

	for _, g := range f.globs {
		if g.Match(channel) {
			return true
		}
	}

	return false
}
