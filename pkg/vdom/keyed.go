package vdom

// syncList reconciles two non-empty child lists of parent.
//
// Common prefixes and suffixes are synced in place first. The remaining
// windows are matched by key, and matched pairs are synced immediately.
// Old nodes without a match are removed, new nodes without a match are
// inserted, and when the matched nodes are out of order the ones outside
// the longest increasing subsequence of old positions are moved.
func (e *Engine) syncList(parent any, a, b []*VNode, ctx Context, flags SyncFlags) {
	aStart, bStart := 0, 0
	aEnd, bEnd := len(a)-1, len(b)-1

	for aStart <= aEnd && bStart <= bEnd && KeysEqual(a[aStart], b[bStart]) {
		e.sync(parent, a[aStart], b[bStart], ctx, flags)
		aStart++
		bStart++
	}
	for aStart <= aEnd && bStart <= bEnd && KeysEqual(a[aEnd], b[bEnd]) {
		e.sync(parent, a[aEnd], b[bEnd], ctx, flags)
		aEnd--
		bEnd--
	}

	if aStart > aEnd {
		if bStart <= bEnd {
			ref := nextTarget(b, bEnd)
			for i := bStart; i <= bEnd; i++ {
				e.insert(parent, b[i], ref, ctx, flags)
			}
		}
		return
	}
	if bStart > bEnd {
		for i := aStart; i <= aEnd; i++ {
			e.remove(parent, a[i], flags)
		}
		return
	}

	aLen := aEnd - aStart + 1
	bLen := bEnd - bStart + 1

	// sources[i] is the old index matched to b[bStart+i], or -1.
	sources := make([]int, bLen)
	for i := range sources {
		sources[i] = -1
	}
	matched := make([]bool, aLen)
	synced := 0
	pos := 0
	moved := false

	match := func(i, j int) {
		sources[j-bStart] = i
		matched[i-aStart] = true
		if pos > j {
			moved = true
		} else {
			pos = j
		}
		e.sync(parent, a[i], b[j], ctx, flags)
		synced++
	}

	// Implicit keys are increasing slot positions on both sides, so a
	// single forward cursor finds every positional match.
	cursor := bStart
	matchImplicit := func(i int) {
		idx := a[i].Index
		for cursor <= bEnd {
			c := b[cursor]
			if c.ExplicitKey || c.Index < idx {
				cursor++
				continue
			}
			if c.Index == idx {
				match(i, cursor)
				cursor++
			}
			return
		}
	}

	if aLen+bLen < e.config.KeyIndexThreshold || bLen < e.config.KeyIndexMinNew {
		for i := aStart; i <= aEnd && synced < bLen; i++ {
			if !a[i].ExplicitKey {
				matchImplicit(i)
				continue
			}
			for j := bStart; j <= bEnd; j++ {
				if sources[j-bStart] == -1 && b[j].ExplicitKey && b[j].Key == a[i].Key {
					match(i, j)
					break
				}
			}
		}
	} else {
		keyIndex := make(map[string]int, bLen)
		for j := bStart; j <= bEnd; j++ {
			if b[j].ExplicitKey {
				keyIndex[b[j].Key] = j
			}
		}
		for i := aStart; i <= aEnd && synced < bLen; i++ {
			if !a[i].ExplicitKey {
				matchImplicit(i)
				continue
			}
			if j, ok := keyIndex[a[i].Key]; ok {
				match(i, j)
			}
		}
	}

	if aLen == len(a) && synced == 0 {
		e.clear(parent, a, flags)
		for _, c := range b {
			e.insert(parent, c, nil, ctx, flags)
		}
		return
	}

	for i, ok := range matched {
		if !ok {
			e.remove(parent, a[aStart+i], flags)
		}
	}

	switch {
	case moved:
		seq := lis(sources)
		j := len(seq) - 1
		for i := bLen - 1; i >= 0; i-- {
			k := bStart + i
			switch {
			case sources[i] == -1:
				e.insert(parent, b[k], nextTarget(b, k), ctx, flags)
			case j < 0 || i != seq[j]:
				e.target.MoveBefore(parent, b[k].TargetNode(), nextTarget(b, k))
				e.stats.Moves++
			default:
				j--
			}
		}
	case synced != bLen:
		for i := bLen - 1; i >= 0; i-- {
			if sources[i] == -1 {
				k := bStart + i
				e.insert(parent, b[k], nextTarget(b, k), ctx, flags)
			}
		}
	}
}

// nextTarget returns the target node following b[i], or nil at the end.
func nextTarget(b []*VNode, i int) any {
	if i+1 < len(b) {
		return b[i+1].TargetNode()
	}
	return nil
}
