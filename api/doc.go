// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package api - HTTP boundary of the provenance service
//
//   POST /api/pigs                          registration object or array
//   POST /api/vaccination                   vaccination object or array
//   POST /api/sales                         sale object or array
//   POST /api/verify                        {"qrCode": token}, all kinds
//   GET  /api/verify/{kind}/{code}          one kind
//   GET  /api/disclose/{kind}/{code}/{field}
//   GET  /api/code/{id}
//   GET  /api/details
//
// Errors are JSON {"code": n, "error": text}.  Invalid input is 400,
// an unknown subject 404, a refused disclosure 409, rate limiting 429
// and any upstream failure 500.
package api
