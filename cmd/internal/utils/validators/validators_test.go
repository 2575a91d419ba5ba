package validators

import "testing"

type passwordForm struct {
	Password string `validate:"password"`
}

type statusForm struct {
	Approval  string   `validate:"omitempty,approval"`
	Lifecycle string   `validate:"omitempty,lifecycle"`
	Tags      []string `validate:"nodupes"`
	Username  string   `validate:"nospaces"`
}

func TestPassword(t *testing.T) {
	validate := New()

	valid := []string{"Sup3r$ecret", "Contraseña1!"}
	for _, pw := range valid {
		if err := validate.Struct(&passwordForm{Password: pw}); err != nil {
			t.Errorf("%q should be valid: %v", pw, err)
		}
	}

	invalid := []string{"", "Sh0rt!", "alllower1!", "ALLUPPER1!", "NoDigits!!", "NoSpecial12"}
	for _, pw := range invalid {
		if err := validate.Struct(&passwordForm{Password: pw}); err == nil {
			t.Errorf("%q should be invalid", pw)
		}
	}
}

func TestStatusTags(t *testing.T) {
	validate := New()

	ok := &statusForm{Approval: "aprobada", Lifecycle: "INACTIVE", Tags: []string{"go", "sql"}, Username: "lucia"}
	if err := validate.Struct(ok); err != nil {
		t.Fatalf("expected valid form: %v", err)
	}

	bad := []*statusForm{
		{Approval: "archived"},
		{Lifecycle: "closed"},
		{Tags: []string{"go", "go"}},
		{Username: "lucia perez"},
	}
	for _, form := range bad {
		if err := validate.Struct(form); err == nil {
			t.Errorf("expected %+v to be invalid", form)
		}
	}
}
