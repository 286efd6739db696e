// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/geochile/mapeo/spatial"
	"github.com/geochile/mapeo/utils"
)

// Acceptance gates of the external-geocoder states.
const (
	// UmbralValidacionGoogle gates the fuzzy comparison between Google's
	// formatted address and the query string.
	UmbralValidacionGoogle = 50
	// UmbralPalabrasComunes gates the fraction of query words that must
	// reappear in Google's formatted address, as a percentage.
	UmbralPalabrasComunes = 75.0
)

// TimeoutProveedorDefecto bounds each external call so a slow provider never
// stalls the whole cascade.
const TimeoutProveedorDefecto = 5 * time.Second

// Cascada resolves addresses through a strict-precedence chain of sources:
// cadastral registry, electoral roll, Nominatim, Google Maps, and finally
// the commune centroid. The first state that accepts wins; nothing below it
// is consulted. A provider error is logged and treated as a miss.
type Cascada struct {
	normalizador *Normalizador
	matcher      *MatcherCallejero
	catastro     CatastroRepository
	padron       PadronRepository
	nominatim    Geocodificador
	google       Geocodificador

	// frontera and bitacora are optional: nil disables the containment
	// check and the audit log respectively.
	frontera FronteraProvider
	bitacora *Bitacora

	timeout time.Duration
}

// OpcionCascada configures optional collaborators.
type OpcionCascada func(*Cascada)

// ConFrontera enables the post-resolution commune containment check.
func ConFrontera(p FronteraProvider) OpcionCascada {
	return func(c *Cascada) { c.frontera = p }
}

// ConBitacora enables the resolution audit log.
func ConBitacora(b *Bitacora) OpcionCascada {
	return func(c *Cascada) { c.bitacora = b }
}

// ConTimeout overrides the per-provider call deadline.
func ConTimeout(d time.Duration) OpcionCascada {
	return func(c *Cascada) { c.timeout = d }
}

// NuevaCascada wires a resolution pipeline. The normalizer and matcher are
// built internally; providers are injected so tests can use fakes. A nil
// provider disables that source and the cascade falls through to the next.
func NuevaCascada(callejero CallejeroRepository, catastro CatastroRepository, padron PadronRepository,
	nominatim, google Geocodificador, opciones ...OpcionCascada) (*Cascada, error) {
	normalizador, err := NuevoNormalizador()
	if err != nil {
		return nil, fmt.Errorf("loading glossaries: %w", err)
	}

	c := &Cascada{
		normalizador: normalizador,
		matcher:      NuevoMatcherCallejero(callejero),
		catastro:     catastro,
		padron:       padron,
		nominatim:    nominatim,
		google:       google,
		timeout:      TimeoutProveedorDefecto,
	}

	for _, opt := range opciones {
		opt(c)
	}

	return c, nil
}

// Resolver runs the full pipeline for one query: normalization, gazetteer
// correction, confidence scoring, the source cascade, the containment check
// and the audit record. It always returns a resolution; the only errors are
// malformed queries.
func (c *Cascada) Resolver(ctx context.Context, consulta Consulta) (*Resolucion, error) {
	if err := ValidarConsulta(consulta); err != nil {
		return nil, err
	}

	d := NuevaDireccion(consulta)
	pristina := d.Copia()

	c.normalizador.Procesar(d)
	normalizada := d.NombreVia

	hayMatch, err := c.conPlazo(ctx, func(ctx context.Context) (bool, error) {
		return c.matcher.Mejor(ctx, d)
	})
	if err != nil {
		log.Printf("gazetteer scan failed, continuing without match: %v", err)

		hayMatch = false
	}

	Calificar(d, pristina, normalizada, hayMatch)

	resumen := c.resolverFuentes(ctx, d)

	resolucion := &Resolucion{Coords: resumen, Traza: d}
	c.comprobarFrontera(ctx, resolucion, d)
	c.registrar(ctx, resolucion, d)

	return resolucion, nil
}

// resolverFuentes walks the source states in strict precedence and returns
// the first accepted answer, or the centroid fallback.
func (c *Cascada) resolverFuentes(ctx context.Context, d *Direccion) Resumen {
	if r, ok := c.consultarCatastro(ctx, d); ok {
		return r
	}

	if r, ok := c.consultarPadron(ctx, d); ok {
		return r
	}

	if r, ok := c.consultarNominatim(ctx, d); ok {
		return r
	}

	if r, ok := c.consultarGoogle(ctx, d); ok {
		return r
	}

	return c.centroide(d)
}

// consultarCatastro queries the cadastral registry. The match is always
// recorded on the trace, but it is only terminal when the gazetteer earned
// full confidence.
func (c *Cascada) consultarCatastro(ctx context.Context, d *Direccion) (Resumen, bool) {
	if c.catastro == nil {
		return Resumen{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cut := 0
	cutTexto := ""

	if d.Callejero != nil {
		cutTexto = d.Callejero.Cut
		cut, _ = strconv.Atoi(d.Callejero.Cut)
	}

	if d.Numero != "" {
		fila, err := c.catastro.BuscarConNumero(ctx, cut, d.NombreVia, d.Numero)
		if err != nil {
			log.Printf("cadastral lookup failed: %v", err)

			return Resumen{}, false
		}

		if fila == nil {
			return Resumen{}, false
		}

		d.Origen = OrigenCatastro
		d.Catastro = fila

		if d.Confianza != ConfianzaTotal {
			return Resumen{}, false
		}

		// The registry stores X/Y as longitude/latitude strings.
		return resumenDesdeCadena(OrigenCatastro, d.DireccionFormateada, fila.CoordenadaY, fila.CoordenadaX)
	}

	fila, err := c.catastro.BuscarLocalidad(ctx, cutTexto, d.NombreVia)
	if err != nil {
		log.Printf("cadastral locality lookup failed: %v", err)

		return Resumen{}, false
	}

	if fila == nil {
		return Resumen{}, false
	}

	d.Origen = OrigenCatastroLocalidad
	d.Localidad = fila

	if d.Confianza != ConfianzaTotal {
		return Resumen{}, false
	}

	return resumenDesdeCadena(OrigenCatastroLocalidad, d.DireccionFormateada, fila.Latitud, fila.Longitud)
}

func (c *Cascada) consultarPadron(ctx context.Context, d *Direccion) (Resumen, bool) {
	if c.padron == nil {
		return Resumen{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cut, cutR := "", ""
	if d.Callejero != nil {
		cut, cutR = d.Callejero.Cut, d.Callejero.CutR
	}

	if d.Numero != "" {
		fila, err := c.padron.BuscarPersona(ctx, d.NombreVia, d.Numero, d.Comuna, d.Region, cut, cutR)
		if err != nil {
			log.Printf("electoral roll lookup failed: %v", err)

			return Resumen{}, false
		}

		if fila == nil {
			return Resumen{}, false
		}

		d.Origen = OrigenPadronPersona
		d.PadronPersona = fila
		d.DireccionFormateada = FormatearPadron(fila)

		return resumenDesdeFloat(OrigenPadronPersona, d.DireccionFormateada, fila.Latitud, fila.Longitud), true
	}

	fila, err := c.padron.BuscarLocalidad(ctx, d.NombreVia, d.Comuna, d.Region, cut, cutR)
	if err != nil {
		log.Printf("electoral locality lookup failed: %v", err)

		return Resumen{}, false
	}

	if fila == nil {
		return Resumen{}, false
	}

	d.Origen = OrigenPadronLocalidad
	d.PadronLocalidad = fila

	return resumenDesdeFloat(OrigenPadronLocalidad, fila.Nombre, fila.Latitud, fila.Longitud), true
}

// direccionParaExternos renders the working fields as the plain-text query
// the external geocoders receive.
func direccionParaExternos(d *Direccion) string {
	return fmt.Sprintf("%s %s, %s, %s", d.NombreVia, d.Numero, d.Comuna, d.Region)
}

// registrarFalloProveedor logs a provider failure, distinguishing the
// throttling conditions an operator can act on from plain errors.
func registrarFalloProveedor(proveedor string, err error) {
	switch {
	case IsQuotaExceededError(err):
		log.Printf("%s quota exhausted: %v", proveedor, err)
	case IsRateLimitError(err):
		log.Printf("%s rate limited: %v", proveedor, err)
	case IsTimeoutError(err):
		log.Printf("%s timed out: %v", proveedor, err)
	default:
		log.Printf("%s failed: %v", proveedor, err)
	}
}

// consultarNominatim accepts a candidate only when the house number appears
// verbatim in the display text, or the address was flagged rural (rural
// addresses rarely carry a findable number). Candidates outside Chilean
// bounds fall through: the ", Chile" query suffix is a hint, not a filter.
func (c *Cascada) consultarNominatim(ctx context.Context, d *Direccion) (Resumen, bool) {
	consulta := direccionParaExternos(d)

	candidato, err := c.geocodificar(ctx, c.nominatim, consulta)
	if err != nil {
		registrarFalloProveedor("nominatim", err)

		return Resumen{}, false
	}

	if candidato == nil {
		return Resumen{}, false
	}

	d.Nominatim = candidato

	if !d.Rural && !strings.Contains(candidato.DireccionFormateada, d.Numero) {
		return Resumen{}, false
	}

	if err := ValidarCoordenadas(candidato.Latitud, candidato.Longitud); err != nil {
		log.Printf("nominatim candidate discarded: %v", err)

		return Resumen{}, false
	}

	return resumenDesdeFloat(OrigenNominatim, candidato.DireccionFormateada,
		candidato.Latitud, candidato.Longitud), true
}

// consultarGoogle accepts a candidate only at rooftop or range-interpolated
// precision (any precision when the query has no number), and only when the
// formatted address still resembles the query: fuzzy similarity above
// UmbralValidacionGoogle, or enough of the query's words present.
func (c *Cascada) consultarGoogle(ctx context.Context, d *Direccion) (Resumen, bool) {
	consulta := direccionParaExternos(d)

	candidato, err := c.geocodificar(ctx, c.google, consulta)
	if err != nil {
		registrarFalloProveedor("google maps", err)

		return Resumen{}, false
	}

	if candidato == nil {
		return Resumen{}, false
	}

	d.GoogleMaps = candidato

	if d.Numero != "" &&
		candidato.Precision != PrecisionRooftop && candidato.Precision != PrecisionRangeInterpolated {
		return Resumen{}, false
	}

	similitud := Ratio(strings.ToLower(candidato.DireccionFormateada), strings.ToLower(consulta))
	comunes := utils.CommonWordPercentage(consulta, candidato.DireccionFormateada)

	if similitud <= UmbralValidacionGoogle && comunes <= UmbralPalabrasComunes {
		return Resumen{}, false
	}

	if err := ValidarCoordenadas(candidato.Latitud, candidato.Longitud); err != nil {
		log.Printf("google maps candidate discarded: %v", err)

		return Resumen{}, false
	}

	return resumenDesdeFloat(OrigenGoogleMaps, candidato.DireccionFormateada,
		candidato.Latitud, candidato.Longitud), true
}

// centroide is the terminal fallback: the commune centroid from the
// gazetteer, or null coordinates when there was never a gazetteer match.
// Either way the answer is structurally complete.
func (c *Cascada) centroide(d *Direccion) Resumen {
	d.Origen = OrigenNoEncontrada

	resumen := Resumen{Origen: OrigenNoEncontrada, Direccion: ""}

	if d.Callejero != nil {
		if p, ok := spatial.ParsePoint(d.Callejero.CenLat, d.Callejero.CenLon); ok {
			resumen.Latitud = &p.Lat
			resumen.Longitud = &p.Lng
		}
	}

	return resumen
}

func (c *Cascada) geocodificar(ctx context.Context, g Geocodificador, direccion string) (*Candidato, error) {
	if g == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return g.Geocodificar(ctx, direccion)
}

func (c *Cascada) conPlazo(ctx context.Context, fn func(context.Context) (bool, error)) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return fn(ctx)
}

// comprobarFrontera runs the containment check when a point and a commune
// code are available. Failures are reported in the payload, never fatal.
func (c *Cascada) comprobarFrontera(ctx context.Context, resolucion *Resolucion, d *Direccion) {
	if c.frontera == nil {
		return
	}

	punto, ok := resolucion.Coords.Punto()
	if !ok {
		resolucion.FronteraError = "no existe lat y lon a calcular"

		return
	}

	if d.Callejero == nil || d.Callejero.Cut == "" {
		resolucion.FronteraError = "sin código de comuna para comprobar"

		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	verdict, err := c.frontera.Comprobar(ctx, d.Callejero.Cut, punto.Lat, punto.Lng)
	if err != nil {
		resolucion.FronteraError = err.Error()

		return
	}

	if verdict != nil && verdict.Resultado == FronteraFuera {
		if centro, ok := spatial.ParsePoint(d.Callejero.CenLat, d.Callejero.CenLon); ok {
			log.Printf("point outside commune %s, %.0f m from its centroid",
				d.Callejero.Cut, punto.HaversineDistance(&centro))
		}
	}

	resolucion.Frontera = verdict
}

func (c *Cascada) registrar(ctx context.Context, resolucion *Resolucion, d *Direccion) {
	if c.bitacora == nil {
		return
	}

	if err := c.bitacora.Registrar(ctx, resolucion, d); err != nil {
		log.Printf("audit record failed: %v", err)
	}
}
