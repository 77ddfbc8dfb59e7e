// Package gffxml converts GFF documents to and from an editable XML form.
//
// The XML mirrors the field tree one element per field. The element name is
// the field kind and the Name attribute its label:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<Gff Version="1" Type="UTC">
//	  <Byte Name="Gender">1</Byte>
//	  <CExoString Name="Tag">NW_ORC</CExoString>
//	  <CExoLocString Name="FirstName">
//	    <DWord Name="StringRef">5012</DWord>
//	    <SubString>
//	      <Int Name="StringID">0</Int>
//	      <CExoString Name="String">Orc</CExoString>
//	    </SubString>
//	  </CExoLocString>
//	  <List Name="ItemList">
//	    <Struct Id="1">
//	      <ResRef Name="InventoryRes">nw_wswss001</ResRef>
//	    </Struct>
//	  </List>
//	</Gff>
//
// Integers are written in base 10. Float and Double values are written with
// six fractional digits, so values that need more precision do not survive
// a round trip exactly. VOID fields have no text form and are dropped with
// a warning on the configured logger.
//
// Field order is preserved in both directions. Import keeps document order;
// a label that appears twice in one struct keeps its first position and its
// last value.
//
// All errors are *Error values naming the field path; use errors.Is with
// ErrStructural, ErrParse, ErrCapacity, ErrDepthExceeded or ErrUnknownKind
// to classify them.
package gffxml
