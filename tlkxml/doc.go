// Package tlkxml converts talk tables to and from XML.
//
// The document shape is:
//
//	<Tlk Version="1" LanguageId="0">
//	  <Entry StrRef="1">
//	    <String>Greetings, traveller.</String>
//	    <SoundResRef>vs_nwgreet</SoundResRef>
//	    <SoundLength>2.25</SoundLength>
//	  </Entry>
//	</Tlk>
//
// Only entries that carry something are written. Each child element stands
// for one entry flag: an entry has FlagText exactly when it has a <String>,
// and likewise for <SoundResRef> and <SoundLength>. Non-zero volume and pitch
// variance are written as <VolumeVariance> and <PitchVariance>. When the
// table ends in empty entries, the root carries a Count attribute so that
// the table keeps its length.
//
// Data the flags mark as absent has no place in the document. It is left
// out and reported to the logger at WARN level.
package tlkxml
