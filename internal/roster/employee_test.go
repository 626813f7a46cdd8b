package roster

import "testing"

func TestSetTouchesOnlyOneField(t *testing.T) {
	base := Employee{ID: "1", Name: "Ann", Surname: "Lee", Position: "Dev", ProfilePicture: "data:x", Email: "a@b", Phone: "123"}
	for _, field := range Fields {
		rec := base
		rec.Set(field, "new")
		if rec.Get(field) != "new" {
			t.Fatalf("%s not written", field.Label())
		}
		for _, other := range Fields {
			if other == field {
				continue
			}
			if rec.Get(other) != base.Get(other) {
				t.Fatalf("setting %s changed %s", field.Label(), other.Label())
			}
		}
	}
}
