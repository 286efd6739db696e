// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

// Package api exposes the resolution engine over HTTP.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/geochile/mapeo/mapeo"
)

// Server wires the resolution cascade and the audit log behind gin.
type Server struct {
	cascada  *mapeo.Cascada
	bitacora *mapeo.Bitacora
	addr     string
}

// NewServer builds the HTTP server. bitacora may be nil: the listing
// endpoint then reports the audit log as disabled.
func NewServer(cascada *mapeo.Cascada, bitacora *mapeo.Bitacora, addr string) *Server {
	return &Server{cascada: cascada, bitacora: bitacora, addr: addr}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.POST("/getgeo/", s.getGeo)
	r.GET("/health", s.health)
	r.GET("/api/resoluciones", s.listResoluciones)

	return r
}

// Run blocks serving HTTP.
func (s *Server) Run() error {
	return s.Router().Run(s.addr)
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getGeo resolves one address. Missing required fields are acknowledged
// with a warning payload, not rejected: the upstream systems feeding this
// endpoint treat any non-200 as an outage.
func (s *Server) getGeo(ctx *gin.Context) {
	var req RequestGetGeo
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("cuerpo inválido: %v", err)})

		return
	}

	consulta := req.Consulta()

	if faltan := mapeo.CamposFaltantes(consulta); len(faltan) > 0 {
		ctx.JSON(http.StatusOK, RespuestaAdvertencia{
			Message:  "Petición recibida con advertencias",
			Warnings: "Faltan los siguientes campos requeridos: " + strings.Join(faltan, ", "),
			Data:     req,
		})

		return
	}

	resolucion, err := s.cascada.Resolver(ctx.Request.Context(), consulta)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error al procesar la solicitud: %v", err)})

		return
	}

	if req.Show == "coords" {
		ctx.JSON(http.StatusOK, RespuestaCoords{
			Resumen:  resolucion.Coords,
			Geopanda: resolucion.Frontera,
			Error:    resolucion.FronteraError,
		})

		return
	}

	ctx.JSON(http.StatusOK, resolucion)
}

func (s *Server) listResoluciones(ctx *gin.Context) {
	if s.bitacora == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "bitácora deshabilitada"})

		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}

	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	registros, err := s.bitacora.Listar(ctx.Request.Context(), limit, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	total, err := s.bitacora.Contar(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"total":      total,
		"limit":      limit,
		"offset":     offset,
		"registros":  registros,
		"disponible": true,
	})
}
