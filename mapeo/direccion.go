// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"time"
)

// Consulta is the immutable input of a resolution: a loosely-structured
// street address as received from the caller. NombreVia, Comuna and Region
// must be non-empty for the query to enter the cascade.
type Consulta struct {
	NombreVia string `json:"nombre_via"`
	Numero    string `json:"numero"`
	Comuna    string `json:"comuna"`
	Region    string `json:"region"`
	Provincia string `json:"provincia"`
}

// DatosCallejeros carries the attributes of the matched gazetteer row that
// the rest of the cascade needs: territorial codes and the commune centroid.
// Centroid coordinates are kept as the raw strings stored in the maestro de
// calles; they are parsed tolerantly only when used.
type DatosCallejeros struct {
	Jerarquia string `json:"jerarquia"`
	Cut       string `json:"cut"`
	CutR      string `json:"cut_r"`
	CenLat    string `json:"cen_lat"`
	CenLon    string `json:"cen_lon"`
}

// FilaCatastro is a row of the cadastral registry (APT direcciones):
// property-level records with exact house numbers.
type FilaCatastro struct {
	CodDireccion string `json:"cod_direccion"`
	NombreDirecc string `json:"nombre_direcc"`
	Numero       string `json:"numero"`
	CoordenadaX  string `json:"coordenada_x"`
	CoordenadaY  string `json:"coordenada_y"`
	CodComunaINE int    `json:"cod_comuna_ine"`
	CodCalle     int    `json:"cod_calle"`
	Fuente       string `json:"fuente"`
	Referencia   string `json:"referencia"`
}

// FilaLocalidad is a row of the cadastral locality table (APT localidades),
// used when the query carries no house number.
type FilaLocalidad struct {
	IDLocalidad     int    `json:"id_localid"`
	CodComuna       string `json:"cod_comuna"`
	Comuna          string `json:"comuna"`
	CodRegion       string `json:"cod_r"`
	Region          string `json:"region"`
	NombreLocalidad string `json:"nombre_localidad"`
	Latitud         string `json:"latitud"`
	Longitud        string `json:"longitud"`
	Tipo            string `json:"tipo"`
}

// FilaPadronPersona is the best electoral-roll address match for a
// street + number query, scored server side with trigram similarity.
type FilaPadronPersona struct {
	Score     float64   `json:"score"`
	Comuna    string    `json:"comuna"`
	Provincia string    `json:"provincia"`
	Region    string    `json:"region"`
	CutReg    string    `json:"cut_reg"`
	CutCom    string    `json:"cut_com"`
	TipoVia   string    `json:"tipo_via"`
	NombreVia string    `json:"nombre_via"`
	Numero    string    `json:"numero"`
	Localidad string    `json:"localidad"`
	Latitud   float64   `json:"latitud"`
	Longitud  float64   `json:"longitud"`
	CreadaEn  time.Time `json:"created_at"`
}

// FilaPadronLocalidad is the best electoral-roll locality match for a
// query without house number.
type FilaPadronLocalidad struct {
	Score     float64 `json:"score"`
	Nombre    string  `json:"localidad_nombre"`
	Comuna    string  `json:"comuna_nombre"`
	Region    string  `json:"region_nombre"`
	CodComuna int     `json:"cod_comuna"`
	Latitud   float64 `json:"latitud"`
	Longitud  float64 `json:"longitud"`
}

// Candidato is a result returned by an external geocoder.
type Candidato struct {
	DireccionFormateada string  `json:"direccion"`
	Latitud             float64 `json:"latitud"`
	Longitud            float64 `json:"longitud"`
	// Precision is only populated by providers that expose a
	// location-precision tag (Google Maps location_type).
	Precision string `json:"precision,omitempty"`
}

// Direccion is the mutable working record threaded through every stage of a
// resolution. It is created once per request, owned exclusively by that
// request's pipeline, and returned at the end as the observability trace.
type Direccion struct {
	Origen              string `json:"origen"`
	Confianza           int    `json:"confianza"`
	NombreVia           string `json:"nombre_via"`
	Numero              string `json:"numero"`
	Provincia           string `json:"provincia"`
	Comuna              string `json:"comuna"`
	Region              string `json:"region"`
	DireccionFormateada string `json:"direccion_formateada"`
	Jerarquia           string `json:"jerarquia"`
	Rural               bool   `json:"rural"`

	Callejero       *DatosCallejeros     `json:"datos_callejeros,omitempty"`
	Catastro        *FilaCatastro        `json:"apt,omitempty"`
	Localidad       *FilaLocalidad       `json:"apt_localidades,omitempty"`
	PadronPersona   *FilaPadronPersona   `json:"servel_direccion_persona,omitempty"`
	PadronLocalidad *FilaPadronLocalidad `json:"servel_localidades,omitempty"`
	Nominatim       *Candidato           `json:"nominatim,omitempty"`
	GoogleMaps      *Candidato           `json:"google_maps,omitempty"`
}

// NuevaDireccion builds the working record for a query, with the house
// number already sanitized.
func NuevaDireccion(c Consulta) *Direccion {
	return &Direccion{
		NombreVia: c.NombreVia,
		Numero:    ProcesarNumero(c.Numero),
		Provincia: c.Provincia,
		Comuna:    c.Comuna,
		Region:    c.Region,
	}
}

// Copia returns an independent copy of the working record. Sub-results are
// shared by pointer: they are never mutated after being attached.
func (d *Direccion) Copia() *Direccion {
	copia := *d

	return &copia
}
