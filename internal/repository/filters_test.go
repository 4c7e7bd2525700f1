package repository

import (
	"errors"
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/dining-hall/internal/model"
)

func TestAvailableMealsFilterPinsStatus(t *testing.T) {
	floor := 12.0
	queries := []model.MealQuery{
		{},
		{Name: "soup"},
		{Category: "Lunch", MinPrice: &floor},
	}
	for _, q := range queries {
		f := availableMealsFilter(q)
		status, ok := f["status"].(bson.M)
		if !ok || status["$eq"] != model.MealAvailable {
			t.Errorf("%+v: status constraint = %v", q, f["status"])
		}
	}

	f := availableMealsFilter(model.MealQuery{Name: "soup", Category: "Lunch", MinPrice: &floor})
	if f["category"] != "Lunch" {
		t.Errorf("category = %v", f["category"])
	}
	if price, _ := f["price"].(bson.M); price["$gte"] != 12.0 {
		t.Errorf("price = %v", f["price"])
	}
	if re, _ := f["name"].(primitive.Regex); re.Pattern != "soup" || re.Options != "i" {
		t.Errorf("name = %v", f["name"])
	}
}

func TestContainsQuotesInput(t *testing.T) {
	re := contains("a.b*(")
	if re.Pattern != regexp.QuoteMeta("a.b*(") {
		t.Errorf("pattern = %q", re.Pattern)
	}
	if _, err := regexp.Compile(re.Pattern); err != nil {
		t.Errorf("quoted pattern does not compile: %v", err)
	}
}

func TestNameOrEmailFilter(t *testing.T) {
	if f := nameOrEmailFilter("", ""); len(f) != 0 {
		t.Errorf("no constraints = %v", f)
	}
	f := nameOrEmailFilter("ann", "a@x.com")
	if _, ok := f["name"]; !ok || len(f) != 1 {
		t.Errorf("name should win: %v", f)
	}
	f = nameOrEmailFilter("", "a@x.com")
	if _, ok := f["email"]; !ok || len(f) != 1 {
		t.Errorf("email filter: %v", f)
	}
}

func TestFindOptionsSort(t *testing.T) {
	if opts := findOptions(nil); opts.Sort != nil {
		t.Errorf("unsorted listing got sort %v", opts.Sort)
	}
	opts := findOptions(&model.Sort{Field: MealLikeCount, Order: -1})
	d, ok := opts.Sort.(bson.D)
	if !ok || len(d) != 1 || d[0].Key != "likeCount" || d[0].Value != -1 {
		t.Errorf("sort = %v", opts.Sort)
	}
}

func TestObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := objectID(" " + oid.Hex() + " ")
	if err != nil || got != oid {
		t.Errorf("objectID(%s) = %v, %v", oid.Hex(), got, err)
	}
	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := objectID(bad); !errors.Is(err, ErrInvalidID) {
			t.Errorf("objectID(%q) err = %v", bad, err)
		}
	}
}

func TestJSONColumn(t *testing.T) {
	b, err := encodeJSONColumn(nil)
	if err != nil || b != nil {
		t.Errorf("empty metadata = %q, %v", b, err)
	}
	b, err = encodeJSONColumn(map[string]any{"plan": "monthly", "seats": 2})
	if err != nil {
		t.Fatal(err)
	}
	m, err := decodeJSONColumn(b)
	if err != nil || m["plan"] != "monthly" || m["seats"] != 2.0 {
		t.Errorf("decoded %v, %v", m, err)
	}
	if _, err := decodeJSONColumn([]byte("{")); err == nil {
		t.Error("want error for a corrupt column")
	}
}
