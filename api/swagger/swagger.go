package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Horario Escolar API",
        "description": "Weekly school timetable generation with counter-shift support",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Classes", "description": "Class groups and weekly loads"},
        {"name": "Teachers", "description": "Teacher roster and availability"},
        {"name": "Subjects", "description": "Subject catalogue"},
        {"name": "Timeslots", "description": "Weekly grid catalogue"},
        {"name": "Timetables", "description": "Generation runs and stored timetables"},
        {"name": "Exports", "description": "CSV and PDF exports"}
    ],
    "paths": {
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Register a class",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/classes/{id}/loads": {
            "get": {
                "tags": ["Classes"],
                "summary": "Weekly loads of a class",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Classes"],
                "summary": "Set weekly hours for a subject",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Register a teacher",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Register a subject",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/timeslots": {
            "get": {
                "tags": ["Timeslots"],
                "summary": "Weekly grid catalogue",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/timeslots/sync": {
            "post": {
                "tags": ["Timeslots"],
                "summary": "Seed missing catalogue entries",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Run the timetable generator",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "A run is already in progress"}
                }
            }
        },
        "/timetables/current": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Most recent timetable",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Stored timetable runs",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/timetables/{id}/classes/{classId}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "One class's weekly grid",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a timetable export",
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an export by signed token",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
