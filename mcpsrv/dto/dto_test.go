package dto

import (
	"reflect"
	"testing"

	"github.com/segmentio/encoding/json"

	"github.com/qyinm/storesearch/types"
)

func TestDTOJSONMarshal(t *testing.T) {
	product := types.NewProduct(7, "Desk Lamp", "home", "https://img.example/lamp.png")

	b, err := json.Marshal(FromProduct(product))
	if err != nil {
		t.Fatalf("marshal product dto: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal product dto: %v", err)
	}
	if got["id"] != float64(7) {
		t.Fatalf("unexpected id: %v", got["id"])
	}
	if got["title"] != "Desk Lamp" {
		t.Fatalf("unexpected title: %v", got["title"])
	}
	if got["category"] != "home" {
		t.Fatalf("unexpected category: %v", got["category"])
	}
	if got["image"] != "https://img.example/lamp.png" {
		t.Fatalf("unexpected image: %v", got["image"])
	}
}

func TestFromProductsEmptyIsArray(t *testing.T) {
	b, err := json.Marshal(FromProducts(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[]" {
		t.Fatalf("expected [], got %s", b)
	}
}

func TestDTOFields(t *testing.T) {
	assertNoInterfaceFields(t, reflect.TypeOf(Product{}))
}

func assertNoInterfaceFields(t *testing.T, typ reflect.Type) {
	t.Helper()

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldType := field.Type

		switch fieldType.Kind() {
		case reflect.Interface:
			t.Fatalf("field %s in %s must not be interface type", field.Name, typ.Name())
		case reflect.Struct:
			assertNoInterfaceFields(t, fieldType)
		case reflect.Slice, reflect.Array:
			if fieldType.Elem().Kind() == reflect.Interface {
				t.Fatalf("field %s in %s must not contain interface elements", field.Name, typ.Name())
			}
		}
	}
}
