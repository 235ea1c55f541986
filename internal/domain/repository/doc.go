// Package repository define los contratos de almacenamiento del dominio.
//
// Hay dos implementaciones: internal/store/pg (PostgreSQL vía pgx) y
// internal/store/memory (dev y tests). Convenciones:
//   - context.Context siempre primero
//   - IDs numéricos (BIGSERIAL) por tabla
//   - los errores de dominio viven en errors.go; los drivers traducen los suyos
package repository
