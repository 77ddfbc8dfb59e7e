package tlkxml

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/Liareth/anphillia-tools/internal/xmltext"
	"github.com/Liareth/anphillia-tools/tlk"
)

const (
	// RootTag is the root element of a talk table document.
	RootTag           = "Tlk"
	tagEntry          = "Entry"
	tagString         = "String"
	tagSoundResRef    = "SoundResRef"
	tagSoundLength    = "SoundLength"
	tagVolumeVariance = "VolumeVariance"
	tagPitchVariance  = "PitchVariance"

	attrVersion    = "Version"
	attrLanguageID = "LanguageId"
	attrCount      = "Count"
	attrStrRef     = "StrRef"

	formatVersion = "1"
)

// Export renders t as an XML element tree rooted at <Tlk>.
func Export(t *tlk.Table, opts ...Option) (*etree.Document, error) {
	if t == nil {
		return nil, errorf("", ErrStructural, "nil table")
	}
	cfg := newConfig(opts)

	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := out.CreateElement(RootTag)
	root.CreateAttr(attrVersion, formatVersion)
	root.CreateAttr(attrLanguageID, strconv.FormatUint(uint64(t.LanguageID), 10))

	last := -1
	for i, e := range t.Entries {
		ref := uint32(i)
		path := entryPath(ref)
		if e.Flags&^(tlk.FlagText|tlk.FlagSound|tlk.FlagSoundLength) != 0 {
			cfg.logger.Warn("dropping unknown entry flags", "path", path, "flags", fmt.Sprintf("%#x", uint32(e.Flags)))
		}
		if e.Flags&tlk.FlagText == 0 && e.Text != "" {
			cfg.logger.Warn("dropping unflagged text", "path", path, "bytes", len(e.Text))
		}
		if e.Flags&tlk.FlagSound == 0 && e.SoundResRef != "" {
			cfg.logger.Warn("dropping unflagged sound", "path", path, "resref", e.SoundResRef)
		}
		if e.Flags&tlk.FlagSoundLength == 0 && e.SoundLength != 0 {
			cfg.logger.Warn("dropping unflagged sound length", "path", path)
		}
		if !written(e) {
			continue
		}
		last = i

		el := root.CreateElement(tagEntry)
		el.CreateAttr(attrStrRef, strconv.FormatUint(uint64(ref), 10))
		if e.Flags&tlk.FlagText != 0 {
			if err := xmltext.Check(e.Text); err != nil {
				return nil, errorf(path+"/"+tagString, ErrInvalidText, "%v", err)
			}
			setText(el.CreateElement(tagString), e.Text)
		}
		if e.Flags&tlk.FlagSound != 0 {
			if len(e.SoundResRef) > tlk.MaxSoundResRefLen {
				return nil, &Error{Path: path + "/" + tagSoundResRef, Err: fmt.Errorf("%w: %q is %d bytes, max %d",
					ErrCapacity, e.SoundResRef, len(e.SoundResRef), tlk.MaxSoundResRefLen)}
			}
			if err := xmltext.Check(e.SoundResRef); err != nil {
				return nil, errorf(path+"/"+tagSoundResRef, ErrInvalidText, "%v", err)
			}
			setText(el.CreateElement(tagSoundResRef), e.SoundResRef)
		}
		if e.Flags&tlk.FlagSoundLength != 0 {
			el.CreateElement(tagSoundLength).SetText(strconv.FormatFloat(float64(e.SoundLength), 'g', -1, 32))
		}
		if e.VolumeVariance != 0 {
			el.CreateElement(tagVolumeVariance).SetText(strconv.FormatUint(uint64(e.VolumeVariance), 10))
		}
		if e.PitchVariance != 0 {
			el.CreateElement(tagPitchVariance).SetText(strconv.FormatUint(uint64(e.PitchVariance), 10))
		}
	}
	if len(t.Entries) > last+1 {
		root.CreateAttr(attrCount, strconv.Itoa(len(t.Entries)))
	}
	return out, nil
}

// written reports whether e has anything the document can hold.
func written(e tlk.Entry) bool {
	return e.Flags&(tlk.FlagText|tlk.FlagSound|tlk.FlagSoundLength) != 0 ||
		e.VolumeVariance != 0 || e.PitchVariance != 0
}

func setText(el *etree.Element, text string) {
	if text != "" {
		el.SetText(text)
	}
}
