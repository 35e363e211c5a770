// Package dynamotest provides an in-memory stand-in for the DynamoDB API
// slice the repos depend on. It honors the subset of the store contract the
// write path uses: point gets, equality key-condition queries, atomic
// multi-item write sets, and counter update expressions. Fault injection
// hooks let tests simulate store errors at any lookup or commit site.
package dynamotest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Store is a fake multi-table key-value store. Key schema is declared per
// table at construction; items are addressed by the concatenation of their
// key attribute string values.
type Store struct {
	mu     sync.Mutex
	schema map[string][]string
	tables map[string]map[string]map[string]ddbtypes.AttributeValue

	// Fault injection, keyed by table name. FailTransact inspects the
	// whole write set so tests can fail selected commits only.
	FailGet      map[string]error
	FailQuery    map[string]error
	FailUpdate   map[string]error
	FailTransact func(items []ddbtypes.TransactWriteItem) error
}

func NewStore(schema map[string][]string) *Store {
	tables := make(map[string]map[string]map[string]ddbtypes.AttributeValue, len(schema))
	for table := range schema {
		tables[table] = map[string]map[string]ddbtypes.AttributeValue{}
	}
	return &Store{
		schema:     schema,
		tables:     tables,
		FailGet:    map[string]error{},
		FailQuery:  map[string]error{},
		FailUpdate: map[string]error{},
	}
}

// Put marshals v and stores it, replacing any item under the same key.
func (s *Store) Put(table string, v interface{}) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putItem(table, item)
}

// Get returns the stored item whose key attribute values equal keyVals in
// schema order, or nil.
func (s *Store) Get(table string, keyVals ...string) map[string]ddbtypes.AttributeValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[table][strings.Join(keyVals, "|")]
}

// Count reports the number of items in a table.
func (s *Store) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[table])
}

// Items returns every item in a table.
func (s *Store) Items(table string) []map[string]ddbtypes.AttributeValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]ddbtypes.AttributeValue, 0, len(s.tables[table]))
	for _, item := range s.tables[table] {
		out = append(out, item)
	}
	return out
}

// IntAttr reads a numeric attribute from an item, zero when absent.
func IntAttr(item map[string]ddbtypes.AttributeValue, name string) int {
	if item == nil {
		return 0
	}
	n, ok := item[name].(*ddbtypes.AttributeValueMemberN)
	if !ok {
		return 0
	}
	v, _ := strconv.Atoi(n.Value)
	return v
}

// StrAttr reads a string attribute from an item, empty when absent.
func StrAttr(item map[string]ddbtypes.AttributeValue, name string) string {
	if item == nil {
		return ""
	}
	str, ok := item[name].(*ddbtypes.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return str.Value
}

func (s *Store) GetItem(_ context.Context, params *awsdynamodb.GetItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := deref(params.TableName)
	if err := s.FailGet[table]; err != nil {
		return nil, err
	}
	keyStr, err := s.keyOf(table, params.Key)
	if err != nil {
		return nil, err
	}
	return &awsdynamodb.GetItemOutput{Item: s.tables[table][keyStr]}, nil
}

func (s *Store) Query(_ context.Context, params *awsdynamodb.QueryInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := deref(params.TableName)
	if err := s.FailQuery[table]; err != nil {
		return nil, err
	}
	conds, err := parseKeyCondition(deref(params.KeyConditionExpression), params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	var items []map[string]ddbtypes.AttributeValue
	for _, item := range s.tables[table] {
		if matches(item, conds) {
			items = append(items, item)
			if params.Limit != nil && len(items) >= int(*params.Limit) {
				break
			}
		}
	}
	return &awsdynamodb.QueryOutput{Items: items}, nil
}

func (s *Store) TransactWriteItems(_ context.Context, params *awsdynamodb.TransactWriteItemsInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.TransactWriteItemsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailTransact != nil {
		if err := s.FailTransact(params.TransactItems); err != nil {
			return nil, err
		}
	}
	// Validate the whole set before applying anything so a bad item keeps
	// the write all-or-nothing like the real store.
	for _, item := range params.TransactItems {
		if item.Put == nil && item.Update == nil {
			return nil, fmt.Errorf("dynamotest: unsupported transact item")
		}
	}
	for _, item := range params.TransactItems {
		if item.Put != nil {
			if err := s.putItem(deref(item.Put.TableName), item.Put.Item); err != nil {
				return nil, err
			}
			continue
		}
		upd := item.Update
		if err := s.applyUpdate(deref(upd.TableName), upd.Key, deref(upd.UpdateExpression), upd.ExpressionAttributeValues); err != nil {
			return nil, err
		}
	}
	return &awsdynamodb.TransactWriteItemsOutput{}, nil
}

func (s *Store) UpdateItem(_ context.Context, params *awsdynamodb.UpdateItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := deref(params.TableName)
	if err := s.FailUpdate[table]; err != nil {
		return nil, err
	}
	if err := s.applyUpdate(table, params.Key, deref(params.UpdateExpression), params.ExpressionAttributeValues); err != nil {
		return nil, err
	}
	return &awsdynamodb.UpdateItemOutput{}, nil
}

func (s *Store) putItem(table string, item map[string]ddbtypes.AttributeValue) error {
	keyStr, err := s.keyOf(table, item)
	if err != nil {
		return err
	}
	copied := make(map[string]ddbtypes.AttributeValue, len(item))
	for k, v := range item {
		copied[k] = v
	}
	s.tables[table][keyStr] = copied
	return nil
}

// applyUpdate supports the two counter expressions the write path uses:
//
//	SET <attr> = if_not_exists(<attr>, :zero) + :inc
//	SET <attr> = <attr> + :inc
//
// The first creates the item (and counter) on demand; the second requires
// both to exist, as the real store would.
func (s *Store) applyUpdate(table string, key map[string]ddbtypes.AttributeValue, expr string, vals map[string]ddbtypes.AttributeValue) error {
	attr, defaulted, err := parseUpdateExpression(expr)
	if err != nil {
		return err
	}
	keyStr, err := s.keyOf(table, key)
	if err != nil {
		return err
	}
	item, ok := s.tables[table][keyStr]
	if !ok {
		if !defaulted {
			return fmt.Errorf("dynamotest: update of missing item in %s", table)
		}
		item = make(map[string]ddbtypes.AttributeValue, len(key)+1)
		for k, v := range key {
			item[k] = v
		}
		s.tables[table][keyStr] = item
	}
	cur := 0
	if n, nok := item[attr].(*ddbtypes.AttributeValueMemberN); nok {
		cur, _ = strconv.Atoi(n.Value)
	} else if !defaulted {
		return fmt.Errorf("dynamotest: attribute %s missing on %s item", attr, table)
	}
	inc, err := numValue(vals, ":inc")
	if err != nil {
		return err
	}
	item[attr] = &ddbtypes.AttributeValueMemberN{Value: strconv.Itoa(cur + inc)}
	return nil
}

func (s *Store) keyOf(table string, item map[string]ddbtypes.AttributeValue) (string, error) {
	attrs, ok := s.schema[table]
	if !ok {
		return "", fmt.Errorf("dynamotest: unknown table %q", table)
	}
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		str, sok := item[attr].(*ddbtypes.AttributeValueMemberS)
		if !sok {
			return "", fmt.Errorf("dynamotest: %s item missing key attribute %s", table, attr)
		}
		parts = append(parts, str.Value)
	}
	return strings.Join(parts, "|"), nil
}

type condition struct {
	attr  string
	value string
}

// parseKeyCondition handles conjunctions of "attr = :placeholder" clauses,
// which is every key condition the repos issue.
func parseKeyCondition(expr string, vals map[string]ddbtypes.AttributeValue) ([]condition, error) {
	var conds []condition
	for _, clause := range strings.Split(expr, " AND ") {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("dynamotest: unsupported key condition %q", expr)
		}
		attr := strings.TrimSpace(parts[0])
		placeholder := strings.TrimSpace(parts[1])
		av, ok := vals[placeholder].(*ddbtypes.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("dynamotest: missing value for %s", placeholder)
		}
		conds = append(conds, condition{attr: attr, value: av.Value})
	}
	return conds, nil
}

func parseUpdateExpression(expr string) (attr string, defaulted bool, err error) {
	rest, ok := strings.CutPrefix(expr, "SET ")
	if !ok {
		return "", false, fmt.Errorf("dynamotest: unsupported update expression %q", expr)
	}
	parts := strings.SplitN(rest, "=", 2)
	if len(parts) != 2 {
		return "", false, fmt.Errorf("dynamotest: unsupported update expression %q", expr)
	}
	return strings.TrimSpace(parts[0]), strings.Contains(parts[1], "if_not_exists"), nil
}

func matches(item map[string]ddbtypes.AttributeValue, conds []condition) bool {
	for _, c := range conds {
		str, ok := item[c.attr].(*ddbtypes.AttributeValueMemberS)
		if !ok || str.Value != c.value {
			return false
		}
	}
	return true
}

func numValue(vals map[string]ddbtypes.AttributeValue, placeholder string) (int, error) {
	n, ok := vals[placeholder].(*ddbtypes.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("dynamotest: missing numeric value for %s", placeholder)
	}
	return strconv.Atoi(n.Value)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
