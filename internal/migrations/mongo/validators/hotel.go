package validators

import "go.mongodb.org/mongo-driver/bson"

var HotelValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name", "city", "status"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":    bson.M{"bsonType": "string", "minLength": 1},
			"name":   bson.M{"bsonType": "string", "minLength": 1},
			"city":   bson.M{"bsonType": "string", "minLength": 1},
			"status": bson.M{"bsonType": "string", "enum": []string{"ACTIVE", "INACTIVE"}},
		},
	},
}

var HotelLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "owner", "expires_at"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"owner":      bson.M{"bsonType": "string"},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
