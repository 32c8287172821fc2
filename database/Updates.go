package database

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

func byID(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id}
}

func byIDs(ids []primitive.ObjectID) bson.M {
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	return bson.M{"_id": bson.M{"$in": ids}}
}

// addToSetUpdate adds member to rel's list; a member already present is left
// alone.
func addToSetUpdate(rel models.Relation, member primitive.ObjectID) bson.M {
	return bson.M{"$addToSet": bson.M{rel.Field(): member}}
}

func pullUpdate(rel models.Relation, member primitive.ObjectID) bson.M {
	return bson.M{"$pull": bson.M{rel.Field(): member}}
}

// purgeQuery builds the updateMany filter and update removing every pull's
// members from its list, for pulls that share one owner collection. It
// reports ok=false when there is nothing to pull.
func purgeQuery(pulls []models.Pull) (filter, update bson.M, ok bool) {
	var or []bson.M
	pull := bson.M{}
	for _, p := range pulls {
		if len(p.Members) == 0 {
			continue
		}
		field := p.Relation.Field()
		or = append(or, bson.M{field: bson.M{"$in": p.Members}})
		pull[field] = bson.M{"$in": p.Members}
	}
	if len(or) == 0 {
		return nil, nil, false
	}
	return bson.M{"$or": or}, bson.M{"$pull": pull}, true
}

// groupPulls splits pulls by owner collection, keeping the first-seen
// collection order.
func groupPulls(pulls []models.Pull) ([]string, map[string][]models.Pull) {
	var order []string
	groups := make(map[string][]models.Pull)
	for _, p := range pulls {
		owner := p.Relation.Owner()
		if _, ok := groups[owner]; !ok {
			order = append(order, owner)
		}
		groups[owner] = append(groups[owner], p)
	}
	return order, groups
}

// searchFilter matches query as a literal, case-insensitive substring of
// username or email.
func searchFilter(query string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": []bson.M{
		{"username": re},
		{"email": re},
	}}
}

func profileUpdate(update models.ProfileUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.ProfilePic != nil {
		set["profilePic"] = *update.ProfilePic
	}
	if update.PublicID != nil {
		set["public_id"] = *update.PublicID
	}
	return bson.M{"$set": set}
}

func mediaUpdate(url, handle string, now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"media":     url,
		"public_id": handle,
		"updatedAt": now,
	}}
}
