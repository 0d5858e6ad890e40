package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"edubridge_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeStore is an in-memory Store covering the access patterns the services
// use: key lookups, conditional puts, the three update expressions, equality
// queries through an index and filtered scans.
type fakeStore struct {
	mu    sync.Mutex
	items map[string]map[string]map[string]types.AttributeValue
}

var tableKeys = map[string]string{
	models.UsersTable:              "userId",
	models.ConnectionRequestsTable: "requestId",
	models.ChatsTable:              "pairKey",
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]map[string]map[string]types.AttributeValue{}}
}

var _ Store = (*fakeStore)(nil)

func (f *fakeStore) table(name string) map[string]map[string]types.AttributeValue {
	if f.items[name] == nil {
		f.items[name] = map[string]map[string]types.AttributeValue{}
	}
	return f.items[name]
}

func keyValue(table string, item map[string]types.AttributeValue) string {
	attr, ok := item[tableKeys[table]].(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return attr.Value
}

func (f *fakeStore) GetItem(_ context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.table(tableName)[keyValue(tableName, key)]
	if !ok {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (f *fakeStore) PutItem(_ context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table(tableName)[keyValue(tableName, marshaled)] = marshaled
	return nil
}

func (f *fakeStore) PutItemIfAbsent(_ context.Context, tableName string, item interface{}, keyAttr string) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	table := f.table(tableName)
	id := keyValue(tableName, marshaled)
	if _, exists := table[id]; exists {
		return ErrConditionFailed
	}
	table[id] = marshaled
	return nil
}

func (f *fakeStore) UpdateItem(_ context.Context, tableName, updateExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	return f.applyUpdate(tableName, updateExpression, "", key, values)
}

func (f *fakeStore) UpdateItemConditional(_ context.Context, tableName, updateExpression, conditionExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	return f.applyUpdate(tableName, updateExpression, conditionExpression, key, values)
}

func (f *fakeStore) applyUpdate(tableName, updateExpression, conditionExpression string, key, values map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.table(tableName)[keyValue(tableName, key)]
	if !ok {
		return nil, ErrItemNotFound
	}

	if conditionExpression == "#status = :pending" {
		status, _ := item["status"].(*types.AttributeValueMemberS)
		want, _ := values[":pending"].(*types.AttributeValueMemberS)
		if status == nil || want == nil || status.Value != want.Value {
			return nil, ErrConditionFailed
		}
	}

	switch {
	case updateExpression == "ADD connections :connectionId":
		added := values[":connectionId"].(*types.AttributeValueMemberSS)
		existing, _ := item["connections"].(*types.AttributeValueMemberSS)
		set := map[string]bool{}
		if existing != nil {
			for _, member := range existing.Value {
				set[member] = true
			}
		}
		for _, member := range added.Value {
			set[member] = true
		}
		merged := make([]string, 0, len(set))
		for member := range set {
			merged = append(merged, member)
		}
		item["connections"] = &types.AttributeValueMemberSS{Value: merged}

	case strings.HasPrefix(updateExpression, "SET #status = :status"):
		item["status"] = values[":status"]
		item["updatedAt"] = values[":updatedAt"]

	case strings.HasPrefix(updateExpression, "SET messages = list_append"):
		appended := values[":message"].(*types.AttributeValueMemberL)
		existing, _ := item["messages"].(*types.AttributeValueMemberL)
		var list []types.AttributeValue
		if existing != nil {
			list = append(list, existing.Value...)
		}
		list = append(list, appended.Value...)
		item["messages"] = &types.AttributeValueMemberL{Value: list}
		item["lastMessageAt"] = values[":now"]

	default:
		panic("fakeStore: unsupported update expression " + updateExpression)
	}
	return item, nil
}

// QueryItemsWithIndex supports the single "attr = :placeholder" equality
// shape the services use, ignoring the index name.
func (f *fakeStore) QueryItemsWithIndex(_ context.Context, tableName, indexName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	parts := strings.SplitN(keyCondition, " = ", 2)
	if len(parts) != 2 {
		panic("fakeStore: unsupported key condition " + keyCondition)
	}
	attr, placeholder := parts[0], parts[1]
	want, ok := values[placeholder].(*types.AttributeValueMemberS)
	if !ok {
		panic("fakeStore: key condition value must be a string")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var matches []map[string]types.AttributeValue
	for _, item := range f.table(tableName) {
		if got, ok := item[attr].(*types.AttributeValueMemberS); ok && got.Value == want.Value {
			matches = append(matches, item)
			if limit > 0 && int32(len(matches)) >= limit {
				break
			}
		}
	}
	return matches, nil
}

func (f *fakeStore) ScanWithFilter(_ context.Context, tableName string, filterFunc func(map[string]types.AttributeValue) bool, result interface{}) error {
	f.mu.Lock()
	var filtered []map[string]types.AttributeValue
	for _, item := range f.table(tableName) {
		if filterFunc == nil || filterFunc(item) {
			filtered = append(filtered, item)
		}
	}
	f.mu.Unlock()
	return attributevalue.UnmarshalListOfMaps(filtered, result)
}

// fakeNotifier records emitted events for assertions.
type fakeNotifier struct {
	mu     sync.Mutex
	events []emittedEvent
}

type emittedEvent struct {
	Room    string
	Event   string
	Payload interface{}
}

func (f *fakeNotifier) Emit(room, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emittedEvent{Room: room, Event: event, Payload: payload})
}

func (f *fakeNotifier) eventsFor(room string) []emittedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []emittedEvent
	for _, event := range f.events {
		if event.Room == room {
			matched = append(matched, event)
		}
	}
	return matched
}

// seedUser stores a minimal active user of the given category.
func seedUser(t *testing.T, store *fakeStore, id, name string, category models.Category) *models.User {
	t.Helper()
	user := &models.User{
		UserID:    id,
		Name:      name,
		Email:     id + "@example.com",
		Student:   category,
		IsActive:  true,
		CreatedAt: "2026-01-01T00:00:00Z",
		UpdatedAt: "2026-01-01T00:00:00Z",
	}
	if err := store.PutItem(context.Background(), models.UsersTable, *user); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return user
}

// connectUsers makes two seeded users mutually connected.
func connectUsers(t *testing.T, store *fakeStore, a, b string) {
	t.Helper()
	svc := &ConnectionService{Dynamo: store}
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		if err := svc.addConnection(context.Background(), pair[0], pair[1]); err != nil {
			t.Fatalf("connect %s -> %s: %v", pair[0], pair[1], err)
		}
	}
}
