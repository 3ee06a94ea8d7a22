package pdf

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/nroyer/docseal/internal/protect"
)

// The base mask carries reserved bits, so the tests compare what each
// policy adds on top of it rather than absolute bit values.

func TestFlagsStrictPolicy(t *testing.T) {
	added := flags(protect.PermissionsStrict) &^ model.PermissionsNone
	want := model.PermissionPrintRev2 |
		model.PermissionExtract |
		model.PermissionExtractRev3 |
		model.PermissionPrintRev3

	if added != want&^model.PermissionsNone {
		t.Fatalf("strict policy bits = %016b, want %016b", added, want&^model.PermissionsNone)
	}
	if added&model.PermissionModify != 0 {
		t.Errorf("strict policy must not grant modification")
	}
}

func TestFlagsSigningPolicy(t *testing.T) {
	strict := flags(protect.PermissionsStrict)
	signing := flags(protect.PermissionsSigning)

	added := signing &^ strict
	want := (model.PermissionModAnnFillForm | model.PermissionFillRev3) &^ strict
	if added != want {
		t.Fatalf("signing adds bits %016b beyond strict, want %016b", added, want)
	}
	if signing&^model.PermissionsNone&model.PermissionModify != 0 {
		t.Errorf("signing policy must still deny general modification")
	}
	if signing&^model.PermissionsNone&model.PermissionAssembleRev3 != 0 {
		t.Errorf("signing policy must still deny assembly")
	}
}

func TestFlagsZeroPermissionsKeepBase(t *testing.T) {
	if f := flags(protect.Permissions{}); f != model.PermissionsNone {
		t.Fatalf("empty permission set = %016b, want the bare base mask %016b", f, model.PermissionsNone)
	}
}
