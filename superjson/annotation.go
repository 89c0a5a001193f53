package superjson

import "fmt"

// ============================================================
// Annotation Tree
// ============================================================
//
// meta.values mirrors the plain tree restricted to positions that need
// type reconstruction. One annotation node is encoded as
//
//	["tag"]              leaf: the value at this position is special
//	["tag", {children}]  node: ...and values inside it are special too
//
// where children maps flattened dot paths to nested annotations. At the
// top level, meta.values is either a single annotation (the root value
// itself is special) or a children map.

// annotation is one node of the annotation tree.
type annotation struct {
	tag      string
	children []annotationChild
}

// annotationChild pairs a flattened path with its annotation. Order
// follows the builder's traversal so output stays stable.
type annotationChild struct {
	path string
	ann  *annotation
}

func leaf(tag string) *annotation {
	return &annotation{tag: tag}
}

// annotationValues is the decoded form of meta.values.
type annotationValues struct {
	// root is set when the root value itself carries the annotation.
	root *annotation
	// children is set when descendants of the root are annotated.
	children []annotationChild
}

// lookupChild returns the annotation at an exact path, or nil.
func lookupChild(children []annotationChild, path string) *annotation {
	for _, c := range children {
		if c.path == path {
			return c.ann
		}
	}
	return nil
}

// ============================================================
// Wire form
// ============================================================

func (a *annotation) toJSON() *jsonValue {
	if len(a.children) == 0 {
		return jArray(jString(a.tag))
	}
	fields := make([]jsonField, 0, len(a.children))
	for _, c := range a.children {
		fields = append(fields, jsonField{key: c.path, value: c.ann.toJSON()})
	}
	return jArray(jString(a.tag), jObject(fields...))
}

func (v *annotationValues) toJSON() *jsonValue {
	if v.root != nil {
		return v.root.toJSON()
	}
	fields := make([]jsonField, 0, len(v.children))
	for _, c := range v.children {
		fields = append(fields, jsonField{key: c.path, value: c.ann.toJSON()})
	}
	return jObject(fields...)
}

// parseAnnotation decodes a ["tag"] or ["tag", {children}] array.
func parseAnnotation(j *jsonValue) (*annotation, error) {
	if j == nil {
		return nil, fmt.Errorf("%w: annotation is missing", ErrMalformedEnvelope)
	}
	if j.kind != jsonArray {
		return nil, fmt.Errorf("%w: annotation must be an array, got %s", ErrMalformedEnvelope, j.kind)
	}
	if len(j.arrVal) < 1 || len(j.arrVal) > 2 {
		return nil, fmt.Errorf("%w: annotation array must have 1 or 2 elements, got %d", ErrMalformedEnvelope, len(j.arrVal))
	}
	tagVal := j.arrVal[0]
	if tagVal == nil || tagVal.kind != jsonString {
		return nil, fmt.Errorf("%w: annotation tag must be a string", ErrMalformedEnvelope)
	}
	a := &annotation{tag: tagVal.strVal}
	if len(j.arrVal) == 2 {
		children, err := parseAnnotationChildren(j.arrVal[1])
		if err != nil {
			return nil, err
		}
		a.children = children
	}
	return a, nil
}

func parseAnnotationChildren(j *jsonValue) ([]annotationChild, error) {
	if j == nil {
		return nil, fmt.Errorf("%w: annotation children are missing", ErrMalformedEnvelope)
	}
	if j.kind != jsonObject {
		return nil, fmt.Errorf("%w: annotation children must be an object, got %s", ErrMalformedEnvelope, j.kind)
	}
	children := make([]annotationChild, 0, len(j.objVal))
	for _, f := range j.objVal {
		ann, err := parseAnnotation(f.value)
		if err != nil {
			return nil, fmt.Errorf("at path %q: %w", f.key, err)
		}
		children = append(children, annotationChild{path: f.key, ann: ann})
	}
	return children, nil
}

// parseAnnotationValues decodes meta.values: an array means the root value
// itself is annotated, an object means its descendants are.
func parseAnnotationValues(j *jsonValue) (*annotationValues, error) {
	switch j.kind {
	case jsonArray:
		root, err := parseAnnotation(j)
		if err != nil {
			return nil, err
		}
		return &annotationValues{root: root}, nil
	case jsonObject:
		children, err := parseAnnotationChildren(j)
		if err != nil {
			return nil, err
		}
		return &annotationValues{children: children}, nil
	default:
		return nil, fmt.Errorf("%w: meta.values must be an array or object, got %s", ErrMalformedEnvelope, j.kind)
	}
}
