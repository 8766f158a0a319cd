package highlight

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// highlightAnnotation renders one yellow text-marker annotation.
type highlightAnnotation struct {
	rect box
}

var _ model.AnnotationRenderer = highlightAnnotation{}

// APObjNrInt reports no pre-built appearance stream; the RenderDict output
// stands on its own.
func (a highlightAnnotation) APObjNrInt() int {
	return -1
}

func (a highlightAnnotation) Type() model.AnnotationType {
	return model.AnnHighLight
}

func (a highlightAnnotation) ID() string {
	return ""
}

func (a highlightAnnotation) RectString() string {
	return ""
}

func (a highlightAnnotation) ContentString() string {
	return ""
}

func (a highlightAnnotation) CustomTypeString() string {
	return ""
}

func (a highlightAnnotation) RenderDict(_ *model.XRefTable, _ *types.IndirectRef) (types.Dict, error) {
	r := types.NewRectangle(a.rect.llx, a.rect.lly, a.rect.urx, a.rect.ury)
	return types.Dict(map[string]types.Object{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Highlight"),
		"Rect":    r.Array(),
		"QuadPoints": types.NewNumberArray(
			a.rect.llx, a.rect.ury,
			a.rect.urx, a.rect.ury,
			a.rect.llx, a.rect.lly,
			a.rect.urx, a.rect.lly,
		),
		"C":  types.NewNumberArray(1, 1, 0),
		"CA": types.Float(0.4),
		"F":  types.Integer(4),
	}), nil
}
