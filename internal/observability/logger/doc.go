// Package logger envuelve zap para tasktrack.
//
// Hay un único *zap.Logger de proceso (Init/L). Los middlewares HTTP dejan en
// el contexto una copia con request_id, portal y principal; el resto del
// código lo recupera con From(ctx) y agrega sus propios campos:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("SetActive"))
//	log.Info("group activated", logger.GroupID(id))
//
// Env "dev" escribe consola con colores; "prod" escribe JSON.
package logger
