package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academy Timetable API",
        "description": "Weekly class and consulting schedule management",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Teachers", "description": "Teacher roster"},
        {"name": "Rooms", "description": "Room roster"},
        {"name": "Students", "description": "Student roster"},
        {"name": "Schedules", "description": "Weekly schedule slots"},
        {"name": "Admin", "description": "Administrative operations"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/teachers/": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Register a teacher",
                "responses": {
                    "200": {"description": "Created"},
                    "400": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get a teacher",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete a teacher",
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/teachers/{id}/schedules": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Weekly schedule for a teacher",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/teachers/{id}/schedules/export": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Export a teacher's weekly schedule as CSV or PDF",
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/rooms/": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Register a room",
                "responses": {
                    "200": {"description": "Created"},
                    "400": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/rooms/{id}/schedules": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Weekly schedule for a room",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/rooms/by_name/{name}/schedules": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Weekly schedule for a room looked up by name",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/students/": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "responses": {
                    "200": {"description": "Created"},
                    "400": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/schedules/": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create a schedule slot",
                "responses": {
                    "200": {"description": "Created"},
                    "409": {"description": "Time conflict", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/schedules/{id}": {
            "patch": {
                "tags": ["Schedules"],
                "summary": "Partially update a schedule slot",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "409": {"description": "Time conflict", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete a schedule slot",
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/schedules/bulk_update_regular/": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Bulk-update matching regular slots",
                "responses": {
                    "200": {"description": "Updated count"}
                }
            }
        },
        "/admin/schedules/delete_all": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete every schedule",
                "responses": {
                    "204": {"description": "Deleted"}
                }
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
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/APIError"}
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
