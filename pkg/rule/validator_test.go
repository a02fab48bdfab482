package rule_test

import (
	"testing"

	"github.com/yeisme/coursevault/pkg/rule"
)

func init() {
	if err := rule.RegisterCatalogRules(); err != nil {
		panic(err)
	}
}

// uploadFields 模拟上传请求中走绑定校验的字段.
type uploadFields struct {
	Semester    string `rule:"required,semester"`
	Subject     string `rule:"required"`
	ContentType string `rule:"required,content_type"`
}

func TestEngine(t *testing.T) {
	if rule.Engine() == nil {
		t.Fatal("Engine() returned nil")
	}
}

func TestValidateStructCatalogFields(t *testing.T) {
	valid := uploadFields{Semester: "3", Subject: "DBMS", ContentType: "notes"}
	if err := rule.ValidateStruct(valid); err != nil {
		t.Errorf("valid fields rejected: %v", err)
	}

	cases := []struct {
		name   string
		fields uploadFields
	}{
		{"semester out of range", uploadFields{Semester: "9", Subject: "DBMS", ContentType: "notes"}},
		{"semester not a number", uploadFields{Semester: "three", Subject: "DBMS", ContentType: "notes"}},
		{"missing subject", uploadFields{Semester: "3", ContentType: "notes"}},
		{"unknown content type", uploadFields{Semester: "3", Subject: "DBMS", ContentType: "slides"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := rule.ValidateStruct(tc.fields); err == nil {
				t.Error("invalid fields accepted")
			}
		})
	}
}

func TestSemesterRule(t *testing.T) {
	for _, s := range []string{"1", "4", "8"} {
		if err := rule.ValidateVar(s, "semester"); err != nil {
			t.Errorf("semester %q rejected: %v", s, err)
		}
	}

	for _, s := range []string{"0", "9", "-1", "", "1.5", "one"} {
		if err := rule.ValidateVar(s, "semester"); err == nil {
			t.Errorf("semester %q accepted", s)
		}
	}
}

func TestContentTypeRule(t *testing.T) {
	for _, ct := range []string{"notes", "module", "question-bank", "model-paper"} {
		if err := rule.ValidateVar(ct, "content_type"); err != nil {
			t.Errorf("content type %q rejected: %v", ct, err)
		}
	}

	for _, ct := range []string{"slides", "Notes", ""} {
		if err := rule.ValidateVar(ct, "content_type"); err == nil {
			t.Errorf("content type %q accepted", ct)
		}
	}
}
