package wire

const profileJSON = `{
	"user_id": "u1",
	"alias": "Ana",
	"geo": {"lat": "-6.2", "lng": "106.8"},
	"bio": "",
	"gender": "FEMALE",
	"looking_for": "MALE",
	"relationship_preferences": "Serious",
	"education_level": "Bachelor''s Degree",
	"drinking": "Never",
	"smoking": "Never",
	"zodiac": "Leo",
	"height": 165,
	"kids": "0",
	"work": "Engineer",
	"profile_picture_urls": ["https://cdn/ana.jpg"],
	"hobbies": [{"id": "h1", "name": "Reading"}],
	"movie_series": [],
	"sports": [{"id": "s1", "name": "Tennis"}],
	"travels": []
}`
