package services

import (
	"github.com/nextchapter/bookclub/internal/models"
	"github.com/nextchapter/bookclub/internal/repositories"
)

// requireAdmin 服务层的管理员能力检查。所有仅限管理员的状态转换
// 都必须经过这里，不依赖客户端隐藏按钮。
func requireAdmin(club *models.Club, userID uint) error {
	if club.AdminUserID != userID {
		return ErrNotClubAdmin
	}
	return nil
}

// requireApprovedMember 校验用户是该俱乐部的已批准成员。
func requireApprovedMember(repo *repositories.MembershipRepository, clubID, userID uint) error {
	ok, err := repo.IsApprovedMember(clubID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}
