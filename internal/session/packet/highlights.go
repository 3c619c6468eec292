package packet

// Highlight pairs a finale category with its top-ranked packet.
type Highlight struct {
	Category string
	// Packet is nil when no packet carries the category tag.
	Packet *TurnPacket
	Score  int
}

// SelectHighlights picks, for each requested category, the tagged packet
// with the highest scoring total. The rank of an unscored packet is zero.
// Ties break by insertion order — the earliest packet wins — which is an
// explicit policy, not sort-stability accident.
func SelectHighlights(s Store, categories []string) []Highlight {
	out := make([]Highlight, 0, len(categories))
	for _, category := range categories {
		highlight := Highlight{Category: category}

		var best *TurnPacket
		bestScore := 0
		for _, p := range s.PacketsForTag(category) {
			score := 0
			if p.Scoring != nil {
				score = p.Scoring.Total()
			}
			// Strict greater-than keeps the earliest packet on ties.
			if best == nil || score > bestScore {
				copied := p.clone()
				best = &copied
				bestScore = score
			}
		}

		if best != nil {
			highlight.Packet = best
			highlight.Score = bestScore
		}
		out = append(out, highlight)
	}
	return out
}
