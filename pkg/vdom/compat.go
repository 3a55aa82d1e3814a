package vdom

// CanSync reports whether b can be patched into a's position instead of
// replacing it. Both nodes must be of the same kind, share the same tag
// or component descriptor, and have equal keys.
func CanSync(a, b *VNode) bool {
	if a.Kind != b.Kind || !KeysEqual(a, b) {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindStateful, KindStateless, KindConnect:
		return a.Desc == b.Desc
	default:
		return true
	}
}

// KeysEqual reports whether two siblings carry the same key. An explicit
// key never equals an implicit one, even when they print the same.
func KeysEqual(a, b *VNode) bool {
	if a.ExplicitKey != b.ExplicitKey {
		return false
	}
	if a.ExplicitKey {
		return a.Key == b.Key
	}
	return a.Index == b.Index
}
