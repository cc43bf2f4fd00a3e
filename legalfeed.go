// Package legalfeed ingests legal publications from Venezuelan government
// sources (Gaceta Oficial notices, TSJ decisions) and turns raw HTML into
// normalized records that downstream rule engines can consume.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, goquery/, sqlite/) or after the
// remote source they talk to (gaceta/, tsj/).
package legalfeed
