package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Kelas Works SIS API",
        "description": "Attendance, billing, exam, and report aggregation service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attendance", "description": "Attendance aggregation and marking"},
        {"name": "Billing", "description": "Fee and billing rollups"},
        {"name": "Exams", "description": "Bulk exam scheduling"},
        {"name": "Reports", "description": "Student report assembly"}
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
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "sectionId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark one student's attendance for a day",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/bulk": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark a whole section for a day",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkMarkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export attendance records as CSV",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV content"}
                }
            }
        },
        "/attendance/students/{id}/overview": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Per-student attendance overview",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/students/{id}/window": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Rolling attendance window with streaks",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "days", "in": "query", "type": "integer"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/sections/{id}/completion": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Marking completion for a section on a date",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/billing/students/{id}/fees": {
            "get": {
                "tags": ["Billing"],
                "summary": "Fee summary for one student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/billing/overview": {
            "get": {
                "tags": ["Billing"],
                "summary": "Billing overview for the organization",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/bulk": {
            "post": {
                "tags": ["Exams"],
                "summary": "Create a batch of exams",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkExamRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/conflicts": {
            "post": {
                "tags": ["Exams"],
                "summary": "Dry-run conflict check for a batch of exams",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkExamRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/student": {
            "post": {
                "tags": ["Reports"],
                "summary": "Assemble a student report payload",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/student/pdf": {
            "post": {
                "tags": ["Reports"],
                "summary": "Render a student report as PDF",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "PDF content"}
                }
            }
        }
    },
    "definitions": {
        "MarkRequest": {
            "type": "object",
            "properties": {
                "organization_id": {"type": "string"},
                "student_id": {"type": "string"},
                "section_id": {"type": "string"},
                "date": {"type": "string"},
                "status": {"type": "string"},
                "recorded_by": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["organization_id", "student_id", "section_id", "date", "status", "recorded_by"]
        },
        "BulkMarkRequest": {
            "type": "object",
            "properties": {
                "organization_id": {"type": "string"},
                "section_id": {"type": "string"},
                "date": {"type": "string"},
                "recorded_by": {"type": "string"},
                "items": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/BulkMarkItem"}
                }
            },
            "required": ["organization_id", "section_id", "date", "recorded_by", "items"]
        },
        "BulkMarkItem": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "status": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["student_id", "status"]
        },
        "BulkExamRequest": {
            "type": "object",
            "properties": {
                "scope": {"$ref": "#/definitions/BulkExamScope"},
                "rows": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ExamRow"}
                }
            }
        },
        "BulkExamScope": {
            "type": "object",
            "properties": {
                "organization_id": {"type": "string"},
                "exam_session_id": {"type": "string"},
                "grade_id": {"type": "string"},
                "section_id": {"type": "string"}
            },
            "required": ["organization_id", "exam_session_id", "grade_id", "section_id"]
        },
        "ExamRow": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "title": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "max_marks": {"type": "number"},
                "passing_marks": {"type": "number"},
                "venue": {"type": "string"},
                "supervisors": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            },
            "required": ["subject_id", "title", "start_date", "end_date"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "organization_id": {"type": "string"},
                "student_id": {"type": "string"},
                "academic_year_id": {"type": "string"},
                "sections": {"$ref": "#/definitions/ReportSections"}
            },
            "required": ["organization_id", "student_id", "academic_year_id"]
        },
        "ReportSections": {
            "type": "object",
            "properties": {
                "fee_details": {"type": "boolean"},
                "attendance": {"type": "boolean"},
                "exam_results": {"type": "boolean"},
                "leave_records": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
