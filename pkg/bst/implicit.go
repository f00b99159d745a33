package bst

// CheckImplicit replays the legacy implicit-index scheme over values and
// reports whether it would lay them out the same way as the arena.
//
// In that scheme the root's slot index is its own value, children sit at
// 2i (left) and 2i+1 (right), and "does this child exist" is answered by
// looking the slot index up in a map keyed by value. Index space and value
// space are the same set of numbers, so the lookup is only correct when every
// occupied slot happens to hold a node whose value equals the slot index.
//
// CheckImplicit walks both schemes side by side and returns an
// [ErrInvalidInsertion] error at the first value whose slot lookup collides
// with the value domain or whose insertion parent differs from the arena's.
// It returns nil when the legacy scheme would have produced the same tree.
func CheckImplicit(values []float64, opts ...Option) error {
	if len(values) == 0 {
		return emptyInput()
	}
	t, err := New(values[0], opts...)
	if err != nil {
		return err
	}

	present := map[float64]bool{values[0]: true} // legacy lookup: keyed by value
	slots := map[float64]NodeID{values[0]: 0}    // actual slot occupancy

	for step, v := range values[1:] {
		ins, err := t.Locate(v)
		if err != nil {
			return err
		}

		cur := values[0]
		var slot float64
		for depth := 0; ; depth++ {
			if depth >= t.opts.MaxDepth {
				return invalidInsertion("step %d: value %s: depth limit %d exceeded", step+1, FormatValue(v), t.opts.MaxDepth)
			}
			slot = cur*2 + 1
			if v < cur {
				slot = cur * 2
			}
			occupant, occupied := slots[slot]
			switch {
			case present[slot] != occupied:
				return invalidInsertion("step %d: value %s: index %s collides with the value domain",
					step+1, FormatValue(v), FormatValue(slot))
			case occupied && t.nodes[occupant].Value != slot:
				return invalidInsertion("step %d: value %s: index %s holds value %s",
					step+1, FormatValue(v), FormatValue(slot), t.nodes[occupant].Label())
			}
			if !occupied {
				break
			}
			cur = slot
		}

		if parent := slots[cur]; parent != ins.Parent {
			return invalidInsertion("step %d: value %s: implicit parent %s, expected %s",
				step+1, FormatValue(v), t.nodes[parent].Label(), FormatValue(ins.ParentValue))
		}

		if _, err := t.Insert(v); err != nil {
			return err
		}
		slots[slot] = ins.ID
		present[v] = true
	}
	return nil
}
