package scheduler

import (
	"fmt"

	"github.com/alexanderramin/callsheet/internal/domain"
)

// SegmentKind is one of the three adaptive timeline segment kinds.
type SegmentKind string

const (
	SegmentBanner SegmentKind = "banner"
	SegmentGap    SegmentKind = "gap"
	SegmentDense  SegmentKind = "dense"
)

// SegmentOptions controls the pixel geometry of the adaptive timeline.
type SegmentOptions struct {
	PxPerMin        float64
	GapThresholdMin int
	GapHeightPx     float64
	BannerHeightPx  float64
	MinCardHeightPx float64
}

// DefaultSegmentOptions returns the geometry used by the interactive timeline.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		PxPerMin:        2,
		GapThresholdMin: 60,
		GapHeightPx:     32,
		BannerHeightPx:  40,
		MinCardHeightPx: 24,
	}
}

// Card is an entry positioned inside a dense block.
type Card struct {
	Row      Row
	TopPx    float64
	HeightPx float64
}

// TrackColumn holds one track's cards within a dense block.
type TrackColumn struct {
	TrackID   string
	TrackName string
	Cards     []Card
}

// Segment is one banner, gap, or dense block of the timeline.
type Segment struct {
	Kind     SegmentKind
	StartMin int
	EndMin   int
	HeightPx float64
	Label    string

	// Banner is set for banner segments.
	Banner *Row
	// Columns is set for dense segments, one per track in track order.
	Columns []TrackColumn
}

// Rows returns every row rendered by the segment.
func (s Segment) Rows() []Row {
	switch s.Kind {
	case SegmentBanner:
		if s.Banner == nil {
			return nil
		}
		return []Row{*s.Banner}
	case SegmentGap:
		return nil
	case SegmentDense:
		var out []Row
		for _, col := range s.Columns {
			for _, c := range col.Cards {
				out = append(out, c.Row)
			}
		}
		return out
	default:
		panic(fmt.Sprintf("unhandled segment kind %q", string(s.Kind)))
	}
}

// Segmentation is the adaptive timeline plus the rows it cannot place.
type Segmentation struct {
	Segments    []Segment
	Unscheduled []Row
}

// BuildSegments scans the projection chronologically. Shared entries become
// banner segments that flush the current dense block; an idle stretch longer
// than GapThresholdMin across every track becomes a collapsed gap segment;
// everything else extends the current dense block. Rows without a resolvable
// start are returned in Unscheduled.
func BuildSegments(snap Snapshot, opts SegmentOptions) Segmentation {
	lanes := snap.Lanes()
	tracks := lanes.Tracks()

	var out Segmentation
	var block *denseBlock
	lastEnd, haveLast := 0, false

	flush := func() {
		if block != nil {
			out.Segments = append(out.Segments, block.segment(opts))
			block = nil
		}
	}
	gapBefore := func(start int) {
		if haveLast && start-lastEnd > opts.GapThresholdMin {
			flush()
			out.Segments = append(out.Segments, Segment{
				Kind:     SegmentGap,
				StartMin: lastEnd,
				EndMin:   start,
				HeightPx: opts.GapHeightPx,
				Label:    domain.FormatSpan(start-lastEnd) + " gap",
			})
		}
	}
	advance := func(end int) {
		if !haveLast || end > lastEnd {
			lastEnd = end
		}
		haveLast = true
	}

	for _, r := range Project(snap) {
		if !r.HasTime {
			out.Unscheduled = append(out.Unscheduled, r)
			continue
		}
		if r.Shared {
			flush()
			gapBefore(r.StartMin)
			banner := r
			out.Segments = append(out.Segments, Segment{
				Kind:     SegmentBanner,
				StartMin: r.StartMin,
				EndMin:   r.EndMin,
				HeightPx: opts.BannerHeightPx,
				Label:    r.Entry.Title,
				Banner:   &banner,
			})
			advance(r.EndMin)
			continue
		}
		gapBefore(r.StartMin)
		if block == nil {
			block = newDenseBlock(tracks, r.StartMin)
		}
		block.add(r)
		advance(r.EndMin)
	}
	flush()
	return out
}

type denseBlock struct {
	start   int
	end     int
	columns []TrackColumn
	index   map[string]int
}

func newDenseBlock(tracks []domain.Track, start int) *denseBlock {
	b := &denseBlock{start: start, end: start, index: make(map[string]int, len(tracks))}
	for i, t := range tracks {
		b.columns = append(b.columns, TrackColumn{TrackID: t.ID, TrackName: t.Name})
		b.index[t.ID] = i
	}
	return b
}

func (b *denseBlock) add(r Row) {
	if r.EndMin > b.end {
		b.end = r.EndMin
	}
	i := b.index[r.TrackID]
	b.columns[i].Cards = append(b.columns[i].Cards, Card{Row: r})
}

func (b *denseBlock) segment(opts SegmentOptions) Segment {
	height := float64(b.end-b.start) * opts.PxPerMin
	for ci := range b.columns {
		cards := b.columns[ci].Cards
		for i := range cards {
			cards[i].TopPx = float64(cards[i].Row.StartMin-b.start) * opts.PxPerMin
			cards[i].HeightPx = float64(cards[i].Row.DurationMin) * opts.PxPerMin
			if cards[i].HeightPx < opts.MinCardHeightPx {
				cards[i].HeightPx = opts.MinCardHeightPx
			}
			if bottom := cards[i].TopPx + cards[i].HeightPx; bottom > height {
				height = bottom
			}
		}
	}
	return Segment{
		Kind:     SegmentDense,
		StartMin: b.start,
		EndMin:   b.end,
		HeightPx: height,
		Columns:  b.columns,
	}
}
