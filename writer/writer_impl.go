package writer

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/cvkit/cvkit/ir/raw"
	"github.com/cvkit/cvkit/ir/semantic"
)

type impl struct{}

func (w *impl) SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d obj\n", ref.Num, ref.Gen)
	buf.Write(serializePrimitive(obj))
	buf.WriteString("\nendobj\n")
	return buf.Bytes(), nil
}

// objectBuilder assigns object numbers in a deterministic order and collects
// the indirect objects of one document.
type objectBuilder struct {
	objects  map[raw.ObjectRef]raw.Object
	fontRefs map[*semantic.Font]raw.ObjectRef
	nextNum  int
}

func newObjectBuilder() *objectBuilder {
	return &objectBuilder{
		objects:  make(map[raw.ObjectRef]raw.Object),
		fontRefs: make(map[*semantic.Font]raw.ObjectRef),
		nextNum:  1,
	}
}

func (b *objectBuilder) nextRef() raw.ObjectRef {
	ref := raw.ObjectRef{Num: b.nextNum}
	b.nextNum++
	return ref
}

func (w *impl) Write(doc *semantic.Document, out io.Writer, cfg Config) error {
	if doc == nil || len(doc.Pages) == 0 {
		return fmt.Errorf("document has no pages")
	}

	b := newObjectBuilder()
	catalogRef := b.nextRef()
	pagesRef := b.nextRef()

	pageRefs := make([]raw.ObjectRef, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		contentData := []byte{}
		for _, cs := range p.Contents {
			contentData = append(contentData, serializeContentStream(cs)...)
		}
		contentDict := raw.Dict()
		if cfg.ContentFilter == FilterFlate {
			enc, err := flateEncode(contentData)
			if err != nil {
				return fmt.Errorf("flate encode content: %w", err)
			}
			contentData = enc
			contentDict.Set(raw.NameLiteral("Filter"), raw.NameLiteral("FlateDecode"))
		}
		contentDict.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(contentData))))
		contentRef := b.nextRef()
		b.objects[contentRef] = raw.NewStream(contentDict, contentData)

		pageRef := b.nextRef()
		pageRefs = append(pageRefs, pageRef)
		pageDict := raw.Dict()
		pageDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Page"))
		pageDict.Set(raw.NameLiteral("Parent"), raw.Ref(pagesRef.Num, pagesRef.Gen))
		pageDict.Set(raw.NameLiteral("MediaBox"), rectArray(p.MediaBox))
		pageDict.Set(raw.NameLiteral("Contents"), raw.Ref(contentRef.Num, contentRef.Gen))
		pageDict.Set(raw.NameLiteral("Resources"), b.buildResources(p.Resources))
		b.objects[pageRef] = pageDict
	}

	kidsArr := raw.NewArray()
	for _, r := range pageRefs {
		kidsArr.Append(raw.Ref(r.Num, r.Gen))
	}
	pagesDict := raw.Dict()
	pagesDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Pages"))
	pagesDict.Set(raw.NameLiteral("Count"), raw.NumberInt(int64(len(pageRefs))))
	pagesDict.Set(raw.NameLiteral("Kids"), kidsArr)
	b.objects[pagesRef] = pagesDict

	catalogDict := raw.Dict()
	catalogDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Catalog"))
	catalogDict.Set(raw.NameLiteral("Pages"), raw.Ref(pagesRef.Num, pagesRef.Gen))
	if doc.Lang != "" {
		catalogDict.Set(raw.NameLiteral("Lang"), raw.Str([]byte(doc.Lang)))
	}
	b.objects[catalogRef] = catalogDict

	var infoRef *raw.ObjectRef
	if doc.Info != nil {
		ref := b.nextRef()
		b.objects[ref] = infoDict(doc.Info)
		infoRef = &ref
	}

	// Serialize in object-number order so identical input yields identical bytes.
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", pdfVersion(cfg))
	offsets := make(map[int]int64)
	ordered := make([]raw.ObjectRef, 0, len(b.objects))
	for ref := range b.objects {
		ordered = append(ordered, ref)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Num < ordered[j].Num })
	for _, ref := range ordered {
		offsets[ref.Num] = int64(buf.Len())
		serialized, err := w.SerializeObject(ref, b.objects[ref])
		if err != nil {
			return err
		}
		buf.Write(serialized)
	}

	xrefOffset := buf.Len()
	maxObjNum := ordered[len(ordered)-1].Num
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxObjNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObjNum; i++ {
		if off, ok := offsets[i]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	buf.WriteString("trailer\n<<")
	fmt.Fprintf(&buf, "/Size %d ", maxObjNum+1)
	fmt.Fprintf(&buf, "/Root %d 0 R", catalogRef.Num)
	if infoRef != nil {
		fmt.Fprintf(&buf, " /Info %d 0 R", infoRef.Num)
	}
	buf.WriteString(">>\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n%%%%EOF\n", xrefOffset)

	_, err := out.Write(buf.Bytes())
	return err
}

func (b *objectBuilder) buildResources(res *semantic.Resources) *raw.DictObj {
	resDict := raw.Dict()
	if res == nil || len(res.Fonts) == 0 {
		return resDict
	}
	names := make([]string, 0, len(res.Fonts))
	for name := range res.Fonts {
		names = append(names, name)
	}
	sort.Strings(names)
	fontResDict := raw.Dict()
	for _, name := range names {
		ref := b.ensureFont(res.Fonts[name])
		fontResDict.Set(raw.NameLiteral(name), raw.Ref(ref.Num, ref.Gen))
	}
	resDict.Set(raw.NameLiteral("Font"), fontResDict)
	return resDict
}

func (b *objectBuilder) ensureFont(font *semantic.Font) raw.ObjectRef {
	if ref, ok := b.fontRefs[font]; ok {
		return ref
	}
	base := "Helvetica"
	encoding := ""
	subtype := "Type1"
	if font != nil {
		if font.BaseFont != "" {
			base = font.BaseFont
		}
		encoding = font.Encoding
		if font.Subtype != "" {
			subtype = font.Subtype
		}
	}
	ref := b.nextRef()
	b.fontRefs[font] = ref
	fontDict := raw.Dict()
	fontDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Font"))
	fontDict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral(subtype))
	fontDict.Set(raw.NameLiteral("BaseFont"), raw.NameLiteral(base))

	if subtype == "Type0" {
		desc := font.DescendantFont
		if encoding == "" {
			encoding = "Identity-H"
		}
		fontDict.Set(raw.NameLiteral("Encoding"), raw.NameLiteral(encoding))

		descRef := b.nextRef()
		descDict := raw.Dict()
		descDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Font"))
		descSubtype := "CIDFontType2"
		if desc != nil && desc.Subtype != "" {
			descSubtype = desc.Subtype
		}
		descDict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral(descSubtype))
		descBase := base
		if desc != nil && desc.BaseFont != "" {
			descBase = desc.BaseFont
		}
		descDict.Set(raw.NameLiteral("BaseFont"), raw.NameLiteral(descBase))

		var csi *semantic.CIDSystemInfo
		if font.CIDSystemInfo != nil {
			csi = font.CIDSystemInfo
		} else if desc != nil {
			csi = &desc.CIDSystemInfo
		}
		cs := raw.Dict()
		reg, ord, sup := "Adobe", "Identity", 0
		if csi != nil {
			if csi.Registry != "" {
				reg = csi.Registry
			}
			if csi.Ordering != "" {
				ord = csi.Ordering
			}
			sup = csi.Supplement
		}
		cs.Set(raw.NameLiteral("Registry"), raw.Str([]byte(reg)))
		cs.Set(raw.NameLiteral("Ordering"), raw.Str([]byte(ord)))
		cs.Set(raw.NameLiteral("Supplement"), raw.NumberInt(int64(sup)))
		descDict.Set(raw.NameLiteral("CIDSystemInfo"), cs)

		dw := 1000
		if desc != nil && desc.DW > 0 {
			dw = desc.DW
		}
		descDict.Set(raw.NameLiteral("DW"), raw.NumberInt(int64(dw)))
		widths := map[int]int{}
		if desc != nil && len(desc.W) > 0 {
			widths = desc.W
		} else if len(font.Widths) > 0 {
			widths = font.Widths
		}
		if len(widths) > 0 {
			descDict.Set(raw.NameLiteral("W"), encodeCIDWidths(widths))
		}
		descDict.Set(raw.NameLiteral("CIDToGIDMap"), raw.NameLiteral("Identity"))
		if fd := b.addFontDescriptor(fontDescriptor(desc, font)); fd != nil {
			descDict.Set(raw.NameLiteral("FontDescriptor"), raw.Ref(fd.Num, fd.Gen))
		}
		b.objects[descRef] = descDict
		fontDict.Set(raw.NameLiteral("DescendantFonts"), raw.NewArray(raw.Ref(descRef.Num, descRef.Gen)))
		if uref := b.addToUnicode(font); uref != nil {
			fontDict.Set(raw.NameLiteral("ToUnicode"), raw.Ref(uref.Num, uref.Gen))
		}
	} else {
		if encoding != "" {
			fontDict.Set(raw.NameLiteral("Encoding"), raw.NameLiteral(encoding))
		}
		if font != nil && len(font.Widths) > 0 {
			first, last, widthsArr := encodeWidths(font.Widths)
			fontDict.Set(raw.NameLiteral("FirstChar"), raw.NumberInt(int64(first)))
			fontDict.Set(raw.NameLiteral("LastChar"), raw.NumberInt(int64(last)))
			fontDict.Set(raw.NameLiteral("Widths"), widthsArr)
		}
		if fd := b.addFontDescriptor(fontDescriptor(nil, font)); fd != nil {
			fontDict.Set(raw.NameLiteral("FontDescriptor"), raw.Ref(fd.Num, fd.Gen))
		}
	}
	b.objects[ref] = fontDict
	return ref
}

func (b *objectBuilder) addFontDescriptor(fd *semantic.FontDescriptor) *raw.ObjectRef {
	if fd == nil {
		return nil
	}
	ref := b.nextRef()
	d := raw.Dict()
	d.Set(raw.NameLiteral("Type"), raw.NameLiteral("FontDescriptor"))
	name := fd.FontName
	if name == "" {
		name = "CustomFont"
	}
	d.Set(raw.NameLiteral("FontName"), raw.NameLiteral(name))
	flags := fd.Flags
	if flags == 0 {
		flags = 4
	}
	d.Set(raw.NameLiteral("Flags"), raw.NumberInt(int64(flags)))
	d.Set(raw.NameLiteral("ItalicAngle"), raw.NumberFloat(fd.ItalicAngle))
	d.Set(raw.NameLiteral("Ascent"), raw.NumberFloat(fd.Ascent))
	d.Set(raw.NameLiteral("Descent"), raw.NumberFloat(fd.Descent))
	d.Set(raw.NameLiteral("CapHeight"), raw.NumberFloat(fd.CapHeight))
	stem := fd.StemV
	if stem == 0 {
		stem = 80
	}
	d.Set(raw.NameLiteral("StemV"), raw.NumberInt(int64(stem)))
	d.Set(raw.NameLiteral("FontBBox"), raw.NewArray(
		raw.NumberFloat(fd.FontBBox[0]),
		raw.NumberFloat(fd.FontBBox[1]),
		raw.NumberFloat(fd.FontBBox[2]),
		raw.NumberFloat(fd.FontBBox[3]),
	))
	if len(fd.FontFile) > 0 {
		streamDict := raw.Dict()
		streamDict.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(fd.FontFile))))
		streamDict.Set(raw.NameLiteral("Length1"), raw.NumberInt(int64(len(fd.FontFile))))
		streamRef := b.nextRef()
		b.objects[streamRef] = raw.NewStream(streamDict, fd.FontFile)
		key := "FontFile2"
		if fd.FontFileType != "" {
			key = fd.FontFileType
		}
		d.Set(raw.NameLiteral(key), raw.Ref(streamRef.Num, streamRef.Gen))
	}
	b.objects[ref] = d
	return &ref
}

func (b *objectBuilder) addToUnicode(font *semantic.Font) *raw.ObjectRef {
	cmap := buildToUnicodeCMap(font)
	if len(cmap) == 0 {
		return nil
	}
	ref := b.nextRef()
	d := raw.Dict()
	d.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(cmap))))
	b.objects[ref] = raw.NewStream(d, cmap)
	return &ref
}

func infoDict(info *semantic.DocumentInfo) *raw.DictObj {
	d := raw.Dict()
	set := func(key, val string) {
		if val != "" {
			d.Set(raw.NameLiteral(key), raw.Str([]byte(val)))
		}
	}
	set("Title", info.Title)
	set("Author", info.Author)
	set("Subject", info.Subject)
	set("Creator", info.Creator)
	set("Producer", info.Producer)
	if len(info.Keywords) > 0 {
		d.Set(raw.NameLiteral("Keywords"), raw.Str([]byte(joinKeywords(info.Keywords))))
	}
	return d
}

func joinKeywords(kw []string) string {
	out := ""
	for i, k := range kw {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}

func rectArray(r semantic.Rectangle) *raw.ArrayObj {
	return raw.NewArray(
		raw.NumberFloat(r.LLX),
		raw.NumberFloat(r.LLY),
		raw.NumberFloat(r.URX),
		raw.NumberFloat(r.URY),
	)
}

func serializePrimitive(o raw.Object) []byte {
	switch v := o.(type) {
	case raw.NameObj:
		return []byte("/" + v.Value())
	case raw.NumberObj:
		if v.IsInteger() {
			return []byte(fmt.Sprintf("%d", v.Int()))
		}
		return []byte(fmt.Sprintf("%g", v.Float()))
	case raw.BoolObj:
		if v.Value() {
			return []byte("true")
		}
		return []byte("false")
	case raw.NullObj:
		return []byte("null")
	case raw.StringObj:
		return escapeLiteralString(v.Value())
	case *raw.ArrayObj:
		var b bytes.Buffer
		b.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.Write(serializePrimitive(it))
		}
		b.WriteByte(']')
		return b.Bytes()
	case *raw.DictObj:
		var b bytes.Buffer
		b.WriteString("<<")
		keys := make([]string, 0, len(v.KV))
		for k := range v.KV {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("/" + k + " ")
			b.Write(serializePrimitive(v.KV[k]))
		}
		b.WriteString(">>")
		return b.Bytes()
	case *raw.StreamObj:
		var b bytes.Buffer
		b.Write(serializePrimitive(v.Dict))
		b.WriteString("\nstream\n")
		b.Write(v.Data)
		b.WriteString("\nendstream")
		return b.Bytes()
	case raw.RefObj:
		return []byte(fmt.Sprintf("%d %d R", v.Ref().Num, v.Ref().Gen))
	default:
		return []byte("null")
	}
}
