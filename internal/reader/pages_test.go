package reader

import (
	"testing"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/stretchr/testify/assert"
)

func trackerModel(starts, heights []int, viewportHeight, yOffset int) *Model {
	vp := viewport.New(80, viewportHeight)
	// Assigned directly because SetYOffset clamps against the (empty) content.
	vp.YOffset = yOffset
	return &Model{
		sized:       true,
		viewport:    vp,
		pageStarts:  starts,
		pageHeights: heights,
	}
}

func TestRecomputeCurrentPage(t *testing.T) {
	tests := []struct {
		name    string
		starts  []int
		heights []int
		yOffset int
		want    int
	}{
		{
			name:    "top of the first page",
			starts:  []int{0, 40, 80},
			heights: []int{40, 40, 40},
			yOffset: 0,
			want:    1,
		},
		{
			name:    "second page dominates the viewport",
			starts:  []int{0, 40, 80},
			heights: []int{40, 40, 40},
			yOffset: 45,
			want:    2,
		},
		{
			name:    "exact split ties to the earlier page",
			starts:  []int{0, 40, 80},
			heights: []int{40, 40, 40},
			yOffset: 30,
			want:    1,
		},
		{
			name:    "scrolled past the end shows the last page",
			starts:  []int{0, 40, 80},
			heights: []int{40, 40, 40},
			yOffset: 100,
			want:    3,
		},
		{
			name:    "short page sandwiched between tall ones",
			starts:  []int{0, 40, 45},
			heights: []int{40, 5, 40},
			yOffset: 38,
			want:    3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := trackerModel(tt.starts, tt.heights, 20, tt.yOffset)
			m.recomputeCurrentPage()
			assert.Equal(t, tt.want, m.currentPage)
		})
	}
}

func TestRecomputeCurrentPageEmpty(t *testing.T) {
	m := trackerModel(nil, nil, 20, 0)
	m.currentPage = 7
	m.recomputeCurrentPage()
	assert.Equal(t, 1, m.currentPage)
}

func TestPageBlockHeight(t *testing.T) {
	vp := viewport.New(80, 30)
	m := &Model{sized: true, viewport: vp, displayMode: FitWidth}
	// Width-derived height from the page aspect ratio.
	assert.Equal(t, 56, m.pageBlockHeight())

	m.displayMode = FitHeight
	// One viewport height, borders excluded.
	assert.Equal(t, 28, m.pageBlockHeight())

	m.viewport.Height = 4
	assert.Equal(t, 3, m.pageBlockHeight())
}

func TestTruncateURL(t *testing.T) {
	assert.Equal(t, "https://a/b", truncateURL("https://a/b", 20))
	assert.Equal(t, "https:/...", truncateURL("https://cdn.example.org/p1.jpg", 10))
	assert.Equal(t, "", truncateURL("https://a/b", 3))
}
