package model

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMealKeepsUnnamedFields(t *testing.T) {
	var m Meal
	in := `{"name":"Soup","price":4.5,"status":"upcoming","calories":320,"tags":["hot"]}`
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatal(err)
	}
	if m.Name != "Soup" || m.Price != 4.5 || m.Status != MealUpcoming {
		t.Errorf("named fields = %+v", m)
	}
	if len(m.Extra) != 2 || m.Extra["calories"] != 320.0 {
		t.Errorf("extra = %v", m.Extra)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back["calories"] != 320.0 || back["name"] != "Soup" {
		t.Errorf("encoded %s", out)
	}

	doc, err := bson.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var stored bson.M
	if err := bson.Unmarshal(doc, &stored); err != nil {
		t.Fatal(err)
	}
	if _, ok := stored["calories"]; !ok {
		t.Errorf("document lost unnamed field: %v", stored)
	}
	if _, ok := stored["Extra"]; ok {
		t.Errorf("extra stored as a sub-document: %v", stored)
	}
}

func TestMealWithoutExtra(t *testing.T) {
	var m Meal
	if err := json.Unmarshal([]byte(`{"name":"Rice"}`), &m); err != nil {
		t.Fatal(err)
	}
	if m.Extra != nil {
		t.Errorf("extra = %v", m.Extra)
	}
	if err := json.Unmarshal([]byte(`[1]`), &m); err == nil {
		t.Error("array body decoded")
	}
}

func TestPaymentKeepsUnnamedFields(t *testing.T) {
	var p Payment
	in := `{"_id":"x","email":"a@x.com","price":9.99,"transactionId":"pi_1","date":"2024-06-01T10:00:00Z","cardBrand":"visa"}`
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatal(err)
	}
	if p.Email != "a@x.com" || p.TransactionID != "pi_1" || p.Date.IsZero() {
		t.Errorf("named fields = %+v", p)
	}
	if len(p.Extra) != 1 || p.Extra["cardBrand"] != "visa" {
		t.Errorf("extra = %v", p.Extra)
	}

	out, err := json.Marshal(&p)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back["cardBrand"] != "visa" || back["transactionId"] != "pi_1" {
		t.Errorf("encoded %s", out)
	}
}

func TestWithExtraNeverOverridesNamedFields(t *testing.T) {
	out, err := withExtra(struct {
		Name string `json:"name"`
	}{"Soup"}, map[string]any{"name": "other", "spice": "mild"})
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back["name"] != "Soup" || back["spice"] != "mild" {
		t.Errorf("encoded %s", out)
	}
}
