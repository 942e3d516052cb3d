// Package docs registers the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g cmd/paylink/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/links": {
            "post": {
                "description": "Generates a burner wallet, funds it from the service wallet and returns the claim link",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["links"],
                "summary": "Create payment link",
                "parameters": [
                    {"description": "Amount in SOL", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.CreateLinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.CreateLinkResponse"}},
                    "202": {"description": "Funding submitted, not yet confirmed", "schema": {"$ref": "#/definitions/model.CreateLinkResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/links/inspect": {
            "post": {
                "description": "Decodes the link and reports nominal amount, live balance, status and fiat value",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["links"],
                "summary": "Inspect payment link",
                "parameters": [
                    {"description": "Claim link", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.LinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.InspectLinkResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/links/claim": {
            "post": {
                "description": "Sweeps the link's balance, minus the network fee, to an address or registered username",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["links"],
                "summary": "Claim payment link",
                "parameters": [
                    {"description": "Claim link and recipient", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ClaimRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ClaimResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/usernames": {
            "post": {
                "description": "Binds a name to the address whose owner signed the registration message",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["usernames"],
                "summary": "Register username",
                "parameters": [
                    {"description": "Name, address and signature", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/usernames/check": {
            "get": {
                "produces": ["application/json"],
                "tags": ["usernames"],
                "summary": "Check username availability",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AvailabilityResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/usernames/resolve": {
            "get": {
                "produces": ["application/json"],
                "tags": ["usernames"],
                "summary": "Resolve username",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ResolveResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/usernames/message": {
            "get": {
                "description": "Returns the exact text the address owner must sign to register the name",
                "produces": ["application/json"],
                "tags": ["usernames"],
                "summary": "Registration message",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "name", "in": "query", "required": true},
                    {"type": "string", "description": "Owner address", "name": "address", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.RegistrationMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallet/generate": {
            "post": {
                "description": "Generates the funding wallet and saves it to the encrypted .cwt file",
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Generate service wallet",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GenerateResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallet/balance": {
            "get": {
                "description": "Gets the SOL balance of the funding wallet with its fiat value",
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Service wallet balance",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WalletBalanceResponse"}}
                }
            }
        },
        "/pay": {
            "post": {
                "description": "Sends SOL from the service wallet to an address or registered username",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Send SOL",
                "parameters": [
                    {"description": "Recipient and amount in SOL", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.PayRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PayResponse"}},
                    "202": {"description": "Payment submitted, not yet confirmed", "schema": {"$ref": "#/definitions/model.PayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.AvailabilityResponse": {"type": "object", "properties": {"available": {"type": "boolean"}, "name": {"type": "string"}}},
        "model.ClaimRequest": {"type": "object", "required": ["link", "recipient"], "properties": {"link": {"type": "string"}, "recipient": {"type": "string"}}},
        "model.ClaimResponse": {"type": "object", "properties": {"amount": {"type": "string"}, "recipient": {"type": "string"}, "txId": {"type": "string"}}},
        "model.CreateLinkRequest": {"type": "object", "required": ["amount"], "properties": {"amount": {"type": "string"}}},
        "model.CreateLinkResponse": {"type": "object", "properties": {"address": {"type": "string"}, "amount": {"type": "string"}, "fundingTxId": {"type": "string"}, "link": {"type": "string"}, "message": {"type": "string"}, "pending": {"type": "boolean"}, "status": {"type": "string", "enum": ["CREATED", "FUNDED", "CLAIMED"]}}},
        "model.ErrorResponse": {"type": "object", "properties": {"code": {"type": "string"}, "error": {"type": "string"}}},
        "model.GenerateResponse": {"type": "object", "properties": {"address": {"type": "string"}, "message": {"type": "string"}, "success": {"type": "boolean"}}},
        "model.InspectLinkResponse": {"type": "object", "properties": {"address": {"type": "string"}, "balance": {"type": "string"}, "claimable": {"type": "string"}, "currency": {"type": "string"}, "fiatValue": {"type": "string"}, "nominalAmount": {"type": "string"}, "status": {"type": "string", "enum": ["CREATED", "FUNDED", "CLAIMED"]}}},
        "model.LinkRequest": {"type": "object", "required": ["link"], "properties": {"link": {"type": "string"}}},
        "model.PayRequest": {"type": "object", "required": ["amount", "recipient"], "properties": {"amount": {"type": "string"}, "recipient": {"type": "string"}}},
        "model.PayResponse": {"type": "object", "properties": {"message": {"type": "string"}, "pending": {"type": "boolean"}, "recipient": {"type": "string"}, "txId": {"type": "string"}}},
        "model.RegisterRequest": {"type": "object", "required": ["address", "name", "signature"], "properties": {"address": {"type": "string"}, "name": {"type": "string"}, "signature": {"type": "string"}}},
        "model.RegisterResponse": {"type": "object", "properties": {"address": {"type": "string"}, "name": {"type": "string"}, "txId": {"type": "string"}}},
        "model.RegistrationMessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "model.ResolveResponse": {"type": "object", "properties": {"address": {"type": "string"}, "name": {"type": "string"}}},
        "model.WalletBalanceResponse": {"type": "object", "properties": {"address": {"type": "string"}, "currency": {"type": "string"}, "fiatAmount": {"type": "string"}, "rate": {"type": "string"}, "sol": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Paylink API",
	Description:      "Send SOL as a claimable link and pay registered usernames.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
