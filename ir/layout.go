package ir

import "github.com/wkalt/fbc/util"

// LayoutStruct computes field offsets, total size, and alignment for a struct
// whose field types are already resolved and, for nested structs, already laid
// out. Fields are placed in declaration order at the smallest offset that
// satisfies the field type's natural alignment; the total size is padded to a
// multiple of the struct's alignment, which is the maximum alignment among its
// fields.
func (s *Schema) LayoutStruct(st *Struct) {
	offset := 0
	align := 1
	for i := range st.Fields {
		f := &st.Fields[i]
		fieldAlign := s.Alignment(f.Type)
		offset = util.Align(offset, fieldAlign)
		f.Offset = offset
		offset += s.InlineSize(f.Type)
		align = max(align, fieldAlign)
	}
	st.Align = align
	st.Size = util.Align(offset, align)
}
