package repositories

import (
	"errors"

	"github.com/chondosha/bookchat-server/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotMember is returned when removing a user who is not in the group.
	ErrNotMember = errors.New("user is not a member of this group")
	// ErrNotFriend is returned when removing a user who is not a friend.
	ErrNotFriend = errors.New("user not in friends list")
)

func GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := DB.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetGroup(id uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := DB.First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroupWithMembers loads a group with its member set materialized.
func GetGroupWithMembers(id uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := DB.Preload("Members").First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func GetConversation(id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := DB.First(&conversation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// CreateGroup inserts the group and its creator's membership in one
// transaction. A group is never visible without its creator as a member.
func CreateGroup(name string, creator *models.User) (*models.Group, error) {
	group := models.Group{Name: name}
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		return tx.Model(&group).Association("Members").Append(creator)
	})
	if err != nil {
		return nil, err
	}
	return GetGroupWithMembers(group.ID)
}

// IsMember reports whether the user is in the group's member set.
func IsMember(groupID, userID uuid.UUID) (bool, error) {
	var n int64
	err := DB.Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&n).Error
	return n > 0, err
}

// AddMember adds the user to the group. Adding an existing member is a
// no-op success, so retries are always safe.
func AddMember(group *models.Group, user *models.User) error {
	return DB.Model(group).Association("Members").Append(user)
}

// RemoveMember removes the user from the group, or returns ErrNotMember
// if there is no membership edge to remove.
func RemoveMember(group *models.Group, user *models.User) error {
	member, err := IsMember(group.ID, user.ID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotMember
	}
	return DB.Model(group).Association("Members").Delete(user)
}

// Members returns the group's member set, never nil.
func Members(groupID uuid.UUID) ([]models.User, error) {
	group, err := GetGroupWithMembers(groupID)
	if err != nil {
		return nil, err
	}
	members := make([]models.User, 0, len(group.Members))
	for _, m := range group.Members {
		members = append(members, *m)
	}
	return members, nil
}

// GroupsOf returns every group the user belongs to.
func GroupsOf(user *models.User) ([]models.Group, error) {
	groups := make([]models.Group, 0)
	err := DB.Model(user).Association("Groups").Find(&groups)
	return groups, err
}

func areFriends(userID, friendID uuid.UUID) (bool, error) {
	var n int64
	err := DB.Table("user_friends").
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&n).Error
	return n > 0, err
}

// AddFriend stores the friendship as an undirected edge: both (A,B) and
// (B,A) rows are written so each side sees the other in their friend set.
// Adding an existing friend changes nothing.
func AddFriend(user, friend *models.User) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Association("Friends").Append(friend); err != nil {
			return err
		}
		return tx.Model(friend).Association("Friends").Append(user)
	})
}

// RemoveFriend deletes both directions of the friendship edge, or returns
// ErrNotFriend when the users are not friends.
func RemoveFriend(user, friend *models.User) error {
	friends, err := areFriends(user.ID, friend.ID)
	if err != nil {
		return err
	}
	if !friends {
		return ErrNotFriend
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Association("Friends").Delete(friend); err != nil {
			return err
		}
		return tx.Model(friend).Association("Friends").Delete(user)
	})
}

// Friends returns the user's friend set, never nil.
func Friends(user *models.User) ([]models.User, error) {
	friends := make([]models.User, 0)
	err := DB.Model(user).Association("Friends").Find(&friends)
	return friends, err
}
