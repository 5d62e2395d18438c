package graphql

// splitMerge separates the entries of a merge group into entries rendered on
// their own (fragments, inline fragments, raw text) and the deep merge of
// every plain Fields entry. Other entries contribute nothing.
func splitMerge(group Merge) (standalone []Selection, merged Fields) {
	for _, entry := range group {
		switch e := entry.(type) {
		case Fragment, InlineFragment, Raw:
			standalone = append(standalone, e)
		case Fields:
			merged = mergeFields(merged, e)
		}
	}
	return standalone, merged
}

// mergeFields merges next into acc key by key, later values taking
// precedence:
//
//   - a later boolean replaces any earlier value, so a later false excludes
//   - nested Fields merge recursively
//   - a later Fragment merges its inner Fields into the earlier value
//   - a later sequence (Merge or WithArgs) replaces the earlier value
//   - any other later value replaces the earlier one
//
// New keys are appended in the order they are first seen. Neither input is
// modified.
func mergeFields(acc Fields, next Fields) Fields {
	out := make(Fields, len(acc), len(acc)+len(next))
	copy(out, acc)
	for _, fs := range next {
		if fs.Select == nil {
			continue
		}
		i := fieldIndex(out, fs.Name)
		if i < 0 {
			out = append(out, fs)
			continue
		}
		out[i].Select = mergeValue(out[i].Select, fs.Select)
	}
	return out
}

func mergeValue(prev, next Selection) Selection {
	switch n := next.(type) {
	case Bool:
		return n
	case Fields:
		if p, ok := fieldsOf(prev); ok {
			return mergeFields(p, n)
		}
		return n
	case Fragment:
		inner, ok := n.Select.(Fields)
		if !ok {
			return n
		}
		if p, ok := fieldsOf(prev); ok {
			return mergeFields(p, inner)
		}
		return mergeFields(nil, inner)
	default:
		return n
	}
}

// fieldsOf returns the plain Fields of sel, looking through a fragment.
func fieldsOf(sel Selection) (Fields, bool) {
	switch s := sel.(type) {
	case Fields:
		return s, true
	case Fragment:
		f, ok := s.Select.(Fields)
		return f, ok
	}
	return nil, false
}

func fieldIndex(f Fields, name string) int {
	for i, fs := range f {
		if fs.Name == name {
			return i
		}
	}
	return -1
}
