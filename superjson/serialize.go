package superjson

import "strconv"

// ============================================================
// Meta-Tree Builder
// ============================================================

// isoMillis is the Date wire layout: ISO-8601 with exactly three fractional
// digits and a literal Z, matching Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// nodeAnnotation is the builder's per-node result. At most one of the two
// fields is set: self when the node itself is a special type, children when
// the node is a plain container with annotated descendants. The zero value
// means no annotation anywhere below this node.
type nodeAnnotation struct {
	self     *annotation
	children []annotationChild
}

func (n nodeAnnotation) empty() bool {
	return n.self == nil && len(n.children) == 0
}

// Serialize converts a value tree into the {json, meta} envelope. The only
// failure mode is a tree deeper than the recursion limit.
func Serialize(v *Value) (*Envelope, error) {
	js, ann, err := buildValue(v, 0)
	if err != nil {
		return nil, err
	}

	env := &Envelope{}
	// A root-level undefined has no json field at all: JSON.stringify drops
	// undefined properties, and the ["undefined"] annotation restores it.
	if v.Kind() != KindUndefined {
		env.json = js
	}
	switch {
	case ann.self != nil:
		env.values = &annotationValues{root: ann.self}
	case len(ann.children) > 0:
		env.values = &annotationValues{children: ann.children}
	}
	return env, nil
}

// buildValue produces the plain JSON node and the annotation for one value.
func buildValue(v *Value, depth int) (*jsonValue, nodeAnnotation, error) {
	if depth > maxDepth {
		return nil, nodeAnnotation{}, ErrTooDeep
	}
	if v == nil {
		return jNull(), nodeAnnotation{}, nil
	}

	switch v.kind {
	// Plain JSON types need no annotation.
	case KindNull:
		return jNull(), nodeAnnotation{}, nil
	case KindBool:
		return jBool(v.boolVal), nodeAnnotation{}, nil
	case KindNumber:
		return jNumber(v.numVal), nodeAnnotation{}, nil
	case KindString:
		return jString(v.strVal), nodeAnnotation{}, nil

	case KindArray:
		items, children, err := buildElements(v.listVal, depth)
		if err != nil {
			return nil, nodeAnnotation{}, err
		}
		return jArray(items...), nodeAnnotation{children: children}, nil

	case KindObject:
		fields := make([]jsonField, 0, len(v.objVal))
		var children []annotationChild
		for _, entry := range v.objVal {
			js, ann, err := buildValue(entry.Value, depth+1)
			if err != nil {
				return nil, nodeAnnotation{}, err
			}
			fields = append(fields, jsonField{key: entry.Key, value: js})
			children = collectChild(children, escapeKey(entry.Key), ann)
		}
		return jObject(fields...), nodeAnnotation{children: children}, nil

	// Special scalars: lossy plain form plus a leaf tag.
	case KindUndefined:
		return jNull(), nodeAnnotation{self: leaf(tagUndefined)}, nil

	case KindDate:
		return jString(v.timeVal.UTC().Format(isoMillis)), nodeAnnotation{self: leaf(tagDate)}, nil

	case KindBigInt:
		return jString(v.bigVal.String()), nodeAnnotation{self: leaf(tagBigInt)}, nil

	case KindNaN:
		return jString(numNaN), nodeAnnotation{self: leaf(tagNumber)}, nil
	case KindPosInfinity:
		return jString(numPosInfinity), nodeAnnotation{self: leaf(tagNumber)}, nil
	case KindNegInfinity:
		return jString(numNegInfinity), nodeAnnotation{self: leaf(tagNumber)}, nil
	case KindNegZero:
		return jString(numNegZero), nodeAnnotation{self: leaf(tagNumber)}, nil

	case KindRegExp:
		s := "/" + v.regexpVal.Source + "/" + v.regexpVal.Flags
		return jString(s), nodeAnnotation{self: leaf(tagRegExp)}, nil

	case KindURL:
		return jString(v.strVal), nodeAnnotation{self: leaf(tagURL)}, nil

	// Composite specials: plain container form plus a tag that opens its
	// own inner path namespace.
	case KindSet:
		items, inner, err := buildElements(v.listVal, depth)
		if err != nil {
			return nil, nodeAnnotation{}, err
		}
		return jArray(items...), nodeAnnotation{self: &annotation{tag: tagSet, children: inner}}, nil

	case KindMap:
		pairs := make([]*jsonValue, 0, len(v.mapVal))
		var inner []annotationChild
		for i, entry := range v.mapVal {
			jsKey, keyAnn, err := buildValue(entry.Key, depth+1)
			if err != nil {
				return nil, nodeAnnotation{}, err
			}
			jsVal, valAnn, err := buildValue(entry.Value, depth+1)
			if err != nil {
				return nil, nodeAnnotation{}, err
			}
			pairs = append(pairs, jArray(jsKey, jsVal))
			idx := strconv.Itoa(i)
			inner = collectChild(inner, idx+".0", keyAnn)
			inner = collectChild(inner, idx+".1", valAnn)
		}
		return jArray(pairs...), nodeAnnotation{self: &annotation{tag: tagMap, children: inner}}, nil

	case KindError:
		fields := []jsonField{
			{key: "name", value: jString(v.errVal.Name)},
			{key: "message", value: jString(v.errVal.Message)},
		}
		var inner []annotationChild
		if v.errVal.Cause != nil {
			jsCause, causeAnn, err := buildValue(v.errVal.Cause, depth+1)
			if err != nil {
				return nil, nodeAnnotation{}, err
			}
			fields = append(fields, jsonField{key: "cause", value: jsCause})
			inner = collectChild(inner, "cause", causeAnn)
		}
		return jObject(fields...), nodeAnnotation{self: &annotation{tag: tagError, children: inner}}, nil
	}

	// Unreachable: Kind is a closed set.
	return jNull(), nodeAnnotation{}, nil
}

// buildElements serializes an ordered sequence, collecting per-index
// annotations. Shared by Array and Set.
func buildElements(items []*Value, depth int) ([]*jsonValue, []annotationChild, error) {
	out := make([]*jsonValue, 0, len(items))
	var children []annotationChild
	for i, item := range items {
		js, ann, err := buildValue(item, depth+1)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, js)
		children = collectChild(children, strconv.Itoa(i), ann)
	}
	return out, children, nil
}

// collectChild merges a child's annotation into its parent's children list.
// A special child lands directly at its segment; a plain container child's
// own children flatten upward with the segment prepended.
func collectChild(children []annotationChild, segment string, ann nodeAnnotation) []annotationChild {
	if ann.self != nil {
		return append(children, annotationChild{path: segment, ann: ann.self})
	}
	for _, c := range ann.children {
		children = append(children, annotationChild{path: joinPath(segment, c.path), ann: c.ann})
	}
	return children
}
