package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/nroyer/docseal/internal/protect"
)

// flags lowers a permission set onto pdfcpu's permission bits. The base
// value carries the reserved bits an encryption dictionary must set.
func flags(p protect.Permissions) model.PermissionFlags {
	f := model.PermissionsNone
	if p.PrintLowRes {
		f |= model.PermissionPrintRev2
	}
	if p.ModifyOther {
		f |= model.PermissionModify
	}
	if p.Extract {
		f |= model.PermissionExtract
	}
	if p.ModifyAnnotation {
		f |= model.PermissionModAnnFillForm
	}
	if p.ModifyForm {
		f |= model.PermissionFillRev3
	}
	if p.Accessibility {
		f |= model.PermissionExtractRev3
	}
	if p.ModifyAssembly {
		f |= model.PermissionAssembleRev3
	}
	if p.PrintHighRes {
		f |= model.PermissionPrintRev3
	}
	return f
}
