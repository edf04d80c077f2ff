package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection is a Collection held in process memory. It understands
// the query and update operators the API issues: field equality (a scalar
// also matches array elements), regular expressions, $eq and $ne in
// queries; $set, $inc and $setOnInsert in updates.
type MemoryCollection struct {
	mu   sync.RWMutex
	docs []bson.M
}

// errDuplicateID mirrors the server's duplicate key error on _id
var errDuplicateID = errors.New("duplicate _id")

// NewMemoryCollection returns an empty collection
func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{}
}

func (mc *MemoryCollection) Find(_ context.Context, filter interface{}, results interface{}) error {
	query, err := toDocument(filter)
	if err != nil {
		return err
	}

	mc.mu.RLock()
	defer mc.mu.RUnlock()

	matched := []bson.M{}
	for _, doc := range mc.docs {
		ok, err := matches(doc, query)
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, doc)
		}
	}
	return decodeAll(matched, results)
}

func (mc *MemoryCollection) FindOne(_ context.Context, filter interface{}, result interface{}) error {
	query, err := toDocument(filter)
	if err != nil {
		return err
	}

	mc.mu.RLock()
	defer mc.mu.RUnlock()

	i, err := mc.indexOf(query)
	if err != nil {
		return err
	}
	if i < 0 {
		return ErrNotFound
	}
	return decode(mc.docs[i], result)
}

func (mc *MemoryCollection) CountDocuments(_ context.Context, filter interface{}) (int64, error) {
	query, err := toDocument(filter)
	if err != nil {
		return 0, err
	}

	mc.mu.RLock()
	defer mc.mu.RUnlock()

	var count int64
	for _, doc := range mc.docs {
		ok, err := matches(doc, query)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

func (mc *MemoryCollection) InsertOne(_ context.Context, document interface{}) (*InsertResult, error) {
	doc, err := toDocument(document)
	if err != nil {
		return nil, err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	id, err := mc.insert(doc)
	if err != nil {
		return nil, err
	}
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (mc *MemoryCollection) InsertIfAbsent(_ context.Context, filter interface{}, document interface{}) (*InsertResult, error) {
	query, err := toDocument(filter)
	if err != nil {
		return nil, err
	}
	fields, err := toDocument(document)
	if err != nil {
		return nil, err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	i, err := mc.indexOf(query)
	if err != nil {
		return nil, err
	}
	if i >= 0 {
		return &InsertResult{Acknowledged: true}, nil
	}

	// an upsert seeds the new document with the query's equality fields
	doc := bson.M{}
	for key, cond := range query {
		if isEquality(cond) {
			doc[key] = cond
		}
	}
	for key, value := range fields {
		doc[key] = value
	}

	id, err := mc.insert(doc)
	if errors.Is(err, errDuplicateID) {
		// the id is taken by a document the filter did not match
		return &InsertResult{Acknowledged: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (mc *MemoryCollection) UpdateOne(_ context.Context, filter interface{}, update interface{}) (*UpdateResult, error) {
	query, err := toDocument(filter)
	if err != nil {
		return nil, err
	}
	changes, err := toDocument(update)
	if err != nil {
		return nil, err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	i, err := mc.indexOf(query)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return &UpdateResult{Acknowledged: true}, nil
	}

	before := copyDocument(mc.docs[i])
	if err := applyUpdate(mc.docs[i], changes); err != nil {
		mc.docs[i] = before
		return nil, err
	}

	result := &UpdateResult{Acknowledged: true, MatchedCount: 1}
	if !reflect.DeepEqual(before, mc.docs[i]) {
		result.ModifiedCount = 1
	}
	return result, nil
}

func (mc *MemoryCollection) FindOneAndUpdate(_ context.Context, filter interface{}, update interface{}, result interface{}) error {
	query, err := toDocument(filter)
	if err != nil {
		return err
	}
	changes, err := toDocument(update)
	if err != nil {
		return err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	i, err := mc.indexOf(query)
	if err != nil {
		return err
	}
	if i < 0 {
		return ErrNotFound
	}

	before := copyDocument(mc.docs[i])
	if err := applyUpdate(mc.docs[i], changes); err != nil {
		mc.docs[i] = before
		return err
	}
	return decode(mc.docs[i], result)
}

func (mc *MemoryCollection) DeleteOne(_ context.Context, filter interface{}) (*DeleteResult, error) {
	query, err := toDocument(filter)
	if err != nil {
		return nil, err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	i, err := mc.indexOf(query)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return &DeleteResult{Acknowledged: true}, nil
	}
	mc.docs = append(mc.docs[:i], mc.docs[i+1:]...)
	return &DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// indexOf returns the position of the first document matching query, or -1.
// Callers hold mc.mu.
func (mc *MemoryCollection) indexOf(query bson.M) (int, error) {
	for i, doc := range mc.docs {
		ok, err := matches(doc, query)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// insert appends doc, generating an ObjectID when it has no _id. Callers hold mc.mu.
func (mc *MemoryCollection) insert(doc bson.M) (interface{}, error) {
	id, ok := doc["_id"]
	if !ok {
		id = primitive.NewObjectID()
		doc["_id"] = id
	}
	for _, existing := range mc.docs {
		if valuesEqual(existing["_id"], id) {
			return nil, fmt.Errorf("%w %v", errDuplicateID, id)
		}
	}
	mc.docs = append(mc.docs, doc)
	return id, nil
}

// toDocument normalizes any BSON-marshalable value into a bson.M so stored
// documents, filters and updates share one representation.
func toDocument(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

func decode(doc bson.M, result interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return bson.Unmarshal(raw, result)
}

func decodeAll(docs []bson.M, results interface{}) error {
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.New("results must be a pointer to a slice")
	}
	slice := rv.Elem()
	out := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(slice.Type().Elem())
		if err := decode(doc, elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	slice.Set(out)
	return nil
}

func copyDocument(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func matches(doc, query bson.M) (bool, error) {
	for key, cond := range query {
		value, present := doc[key]
		ok, err := matchField(value, present, cond)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchField(value interface{}, present bool, cond interface{}) (bool, error) {
	if re, ok := cond.(primitive.Regex); ok {
		pattern, err := compileRegex(re)
		if err != nil {
			return false, err
		}
		if !present {
			return false, nil
		}
		return anyElement(value, func(v interface{}) bool {
			s, ok := v.(string)
			return ok && pattern.MatchString(s)
		}), nil
	}

	if ops, ok := operators(cond); ok {
		for op, arg := range ops {
			switch op {
			case "$eq":
				if !equalOrContains(value, present, arg) {
					return false, nil
				}
			case "$ne":
				if equalOrContains(value, present, arg) {
					return false, nil
				}
			default:
				return false, fmt.Errorf("unsupported query operator %s", op)
			}
		}
		return true, nil
	}

	return equalOrContains(value, present, cond), nil
}

func equalOrContains(value interface{}, present bool, want interface{}) bool {
	if !present {
		return want == nil
	}
	if valuesEqual(value, want) {
		return true
	}
	if arr, ok := value.(primitive.A); ok {
		for _, el := range arr {
			if valuesEqual(el, want) {
				return true
			}
		}
	}
	return false
}

func anyElement(value interface{}, pred func(interface{}) bool) bool {
	if arr, ok := value.(primitive.A); ok {
		for _, el := range arr {
			if pred(el) {
				return true
			}
		}
		return false
	}
	return pred(value)
}

func compileRegex(re primitive.Regex) (*regexp.Regexp, error) {
	var flags string
	for _, opt := range re.Options {
		switch opt {
		case 'i', 'm', 's':
			flags += string(opt)
		}
	}
	pattern := re.Pattern
	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", re.Pattern, err)
	}
	return compiled, nil
}

func isEquality(cond interface{}) bool {
	if _, ok := cond.(primitive.Regex); ok {
		return false
	}
	_, ok := operators(cond)
	return !ok
}

// operators returns v as a document when every key is a $-operator
func operators(v interface{}) (bson.M, bool) {
	doc, ok := asDocument(v)
	if !ok || len(doc) == 0 {
		return nil, false
	}
	for key := range doc {
		if !strings.HasPrefix(key, "$") {
			return nil, false
		}
	}
	return doc, true
}

func asDocument(v interface{}) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]interface{}:
		return bson.M(d), true
	case primitive.D:
		return d.Map(), true
	}
	return nil, false
}

// applyUpdate mutates doc in place. $setOnInsert is ignored because
// updates here never insert.
func applyUpdate(doc bson.M, update bson.M) error {
	for op, arg := range update {
		fields, ok := asDocument(arg)
		if !ok {
			return fmt.Errorf("update operator %s expects a document", op)
		}
		switch op {
		case "$set":
			for key, value := range fields {
				if err := setField(doc, key, value); err != nil {
					return err
				}
			}
		case "$setOnInsert":
		case "$inc":
			for key, delta := range fields {
				sum, err := addNumbers(doc[key], delta)
				if err != nil {
					return fmt.Errorf("$inc %s: %w", key, err)
				}
				doc[key] = sum
			}
		default:
			return fmt.Errorf("unsupported update operator %s", op)
		}
	}
	return nil
}

func setField(doc bson.M, key string, value interface{}) error {
	if key == "_id" {
		if current, ok := doc["_id"]; ok && !valuesEqual(current, value) {
			return errors.New("the _id field cannot be modified")
		}
	}
	doc[key] = value
	return nil
}

func valuesEqual(a, b interface{}) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func addNumbers(current, delta interface{}) (interface{}, error) {
	if current == nil {
		current = int32(0)
	}
	switch d := delta.(type) {
	case float64:
		c, ok := toFloat(current)
		if !ok {
			return nil, fmt.Errorf("cannot increment non-numeric value %v", current)
		}
		return c + d, nil
	case int32, int64, int:
		step, _ := toFloat(d)
		switch c := current.(type) {
		case float64:
			return c + step, nil
		case int32:
			sum := int64(c) + int64(step)
			if _, ok := d.(int32); ok && sum >= math.MinInt32 && sum <= math.MaxInt32 {
				return int32(sum), nil
			}
			return sum, nil
		case int64:
			return c + int64(step), nil
		case int:
			return int64(c) + int64(step), nil
		}
		return nil, fmt.Errorf("cannot increment non-numeric value %v", current)
	}
	return nil, fmt.Errorf("increment must be numeric, got %T", delta)
}
